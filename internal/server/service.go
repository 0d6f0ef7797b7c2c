package server

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
)

// gRPC method names of the receipt service.
const (
	ReceiptProcessorService = "receipts.v1.ReceiptProcessor"
	ProcessReceiptMethod    = "/" + ReceiptProcessorService + "/ProcessReceipt"
	GetPointsMethod         = "/" + ReceiptProcessorService + "/GetPoints"
)

// ReceiptProcessorServer is the gRPC surface of the receipt facade. Requests
// and responses are protobuf well-known types: the receipt travels as a
// google.protobuf.Struct holding the same JSON object the HTTP API accepts.
type ReceiptProcessorServer interface {
	ProcessReceipt(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error)
	GetPoints(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
}

// ReceiptProcessorServiceDesc describes the service for grpc.Server.RegisterService.
var ReceiptProcessorServiceDesc = grpc.ServiceDesc{
	ServiceName: ReceiptProcessorService,
	HandlerType: (*ReceiptProcessorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessReceipt", Handler: processReceiptHandler},
		{MethodName: "GetPoints", Handler: getPointsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "receipts/v1/receipts.proto",
}

// RegisterReceiptProcessorServer registers srv on s.
func RegisterReceiptProcessorServer(s grpc.ServiceRegistrar, srv ReceiptProcessorServer) {
	s.RegisterService(&ReceiptProcessorServiceDesc, srv)
}

func processReceiptHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReceiptProcessorServer).ProcessReceipt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ProcessReceiptMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReceiptProcessorServer).ProcessReceipt(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getPointsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReceiptProcessorServer).GetPoints(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetPointsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReceiptProcessorServer).GetPoints(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ReceiptsService implements ReceiptProcessorServer over the receipts facade.
type ReceiptsService struct {
	svc    *receipts.Service
	logger *zap.Logger
}

func NewReceiptsService(svc *receipts.Service, logger *zap.Logger) *ReceiptsService {
	return &ReceiptsService{svc: svc, logger: logger}
}

func (s *ReceiptsService) ProcessReceipt(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	data, err := protojson.Marshal(in)
	if err != nil {
		s.logger.Info("receipt struct not encodable", zap.Error(err))
		return nil, status.Error(codes.InvalidArgument, constants.MsgInvalidReceipt)
	}
	id, err := s.svc.Submit(ctx, data)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return wrapperspb.String(id), nil
}

func (s *ReceiptsService) GetPoints(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	pts, err := s.svc.CalculatePoints(ctx, in.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	return wrapperspb.Int64(pts), nil
}

func (s *ReceiptsService) toStatus(err error) error {
	switch {
	case common.IsInvalidReceipt(err):
		return status.Error(codes.InvalidArgument, constants.MsgInvalidReceipt)
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, constants.MsgReceiptNotFound)
	default:
		s.logger.Warn("receipt call failed", zap.Error(err))
		return status.Error(codes.Internal, constants.MsgInternalError)
	}
}
