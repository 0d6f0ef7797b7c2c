package server

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
	"github.com/joseph-ayodele/receipt-processor/internal/repository"
)

func dialBufconn(t *testing.T) *grpc.ClientConn {
	t.Helper()
	logger := zaptest.NewLogger(t)
	svc := receipts.NewService(repository.NewMemoryRepository(logger), logger)
	srv, _ := NewGRPCServer(common.GRPCConfig{Reflection: true}, svc, logger)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receiptStruct(t *testing.T, js string) *structpb.Struct {
	t.Helper()
	s := &structpb.Struct{}
	require.NoError(t, protojson.Unmarshal([]byte(js), s))
	return s
}

func TestGRPC_ProcessAndGetPoints(t *testing.T) {
	conn := dialBufconn(t)
	ctx := context.Background()

	id := &wrapperspb.StringValue{}
	require.NoError(t, conn.Invoke(ctx, ProcessReceiptMethod, receiptStruct(t, cornerMarketReceipt), id))
	assert.NotEmpty(t, id.GetValue())

	pts := &wrapperspb.Int64Value{}
	require.NoError(t, conn.Invoke(ctx, GetPointsMethod, id, pts))
	assert.Equal(t, int64(109), pts.GetValue())
}

func TestGRPC_InvalidReceipt(t *testing.T) {
	conn := dialBufconn(t)
	for _, js := range []string{
		`{"retailer": "Target"}`,
		`{"retailer": 42}`,
		`{"purchaseDate": "20-01-2022"}`,
	} {
		err := conn.Invoke(context.Background(), ProcessReceiptMethod, receiptStruct(t, js), &wrapperspb.StringValue{})
		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.InvalidArgument, st.Code(), js)
		assert.Equal(t, constants.MsgInvalidReceipt, st.Message())
	}
}

func TestGRPC_UnknownID(t *testing.T) {
	conn := dialBufconn(t)
	err := conn.Invoke(context.Background(), GetPointsMethod, wrapperspb.String("missing"), &wrapperspb.Int64Value{})
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, constants.MsgReceiptNotFound, st.Message())
}

func TestGRPC_Health(t *testing.T) {
	conn := dialBufconn(t)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ReceiptProcessorService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRecoverUnary(t *testing.T) {
	interceptor := RecoverUnary(zaptest.NewLogger(t))
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(context.Context, any) (any, error) { panic("boom") })
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRequestIDUnary(t *testing.T) {
	var seen string
	_, err := RequestIDUnary()(context.Background(), nil, &grpc.UnaryServerInfo{},
		func(ctx context.Context, _ any) (any, error) {
			seen = common.RequestIDFromContext(ctx)
			return nil, nil
		})
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
}
