package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

// jsonCodec lets the gRPC server exchange Message values as JSON instead of
// protobuf, so the one Message type can serve both the WebSocket and gRPC
// transports without a generated codec.
type jsonCodec struct{}

func (jsonCodec) Name() string                          { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)         { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error    { return json.Unmarshal(data, v) }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// SubscribeRequest is the request that opens a Stream. ChapterId is
// accepted but not used for filtering: every stream receives every
// progress event the Hub broadcasts.
type SubscribeRequest struct {
	ChapterId string `json:"chapterId,omitempty"`
}

// ProgressServer is the server-streaming RPC a gRPC observer connects to.
type ProgressServer interface {
	Stream(*SubscribeRequest, Progress_StreamServer) error
}

type UnimplementedProgressServer struct{}

func (UnimplementedProgressServer) Stream(*SubscribeRequest, Progress_StreamServer) error {
	return status.Errorf(codes.Unimplemented, "method Stream not implemented")
}

// Progress_StreamServer is the server-side handle for one subscriber's
// outbound stream of Messages.
type Progress_StreamServer interface {
	Send(*Message) error
	grpc.ServerStream
}

type progressStreamServer struct {
	grpc.ServerStream
}

func (x *progressStreamServer) Send(m *Message) error {
	return x.ServerStream.SendMsg(m)
}

func _Progress_Stream_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(SubscribeRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(ProgressServer).Stream(req, &progressStreamServer{stream})
}

var _Progress_serviceDesc = grpc.ServiceDesc{
	ServiceName: "amsalign.Progress",
	HandlerType: (*ProgressServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Stream",
			Handler:       _Progress_Stream_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "internal/progress/progress.proto",
}

func RegisterProgressServer(s *grpc.Server, srv ProgressServer) {
	s.RegisterService(&_Progress_serviceDesc, srv)
}

// Stream implements ProgressServer by registering the caller as a Hub
// client for as long as the RPC stays open.
func (h *Hub) Stream(req *SubscribeRequest, stream Progress_StreamServer) error {
	client := &grpcClient{stream: stream}
	h.register(client)
	defer h.unregister(client)

	<-stream.Context().Done()
	return stream.Context().Err()
}

// ServeGRPC starts a gRPC server exposing the Hub on addr, using the same
// unix-socket/named-pipe addressing convention as the rest of the ambient
// control plane. It blocks until the listener fails.
func (h *Hub) ServeGRPC(addr string) error {
	if addr == "" {
		if runtime.GOOS == "windows" {
			addr = "npipe:\\\\.\\pipe\\ams-align-progress"
		} else {
			addr = "unix:///tmp/ams-align-progress.sock"
		}
	}

	lis, err := listenGRPC(addr)
	if err != nil {
		return err
	}

	server := grpc.NewServer(
		grpc.Creds(insecure.NewCredentials()),
		grpc.ForceServerCodec(jsonCodec{}),
	)
	RegisterProgressServer(server, h)

	log.Printf("progress: gRPC listening on %s", addr)
	return server.Serve(lis)
}

func listenGRPC(addr string) (net.Listener, error) {
	switch {
	case strings.HasPrefix(addr, "unix:"):
		socketPath := strings.TrimPrefix(addr, "unix:")
		if err := removeIfExists(socketPath); err != nil {
			return nil, err
		}
		return net.Listen("unix", socketPath)
	case strings.HasPrefix(addr, "npipe:"):
		pipePath := strings.TrimPrefix(addr, "npipe:")
		return listenPipe(pipePath)
	default:
		return net.Listen("tcp", addr)
	}
}

func removeIfExists(path string) error {
	if path == "" {
		return errors.New("empty socket path")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
