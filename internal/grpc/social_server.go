package grpcserver

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/auth"
	"socialMediaAPI/internal/ledger"
	"socialMediaAPI/internal/logging"
	"socialMediaAPI/internal/service"
	"socialMediaAPI/models"
)

const (
	serviceName  = "socialmedia.v1.SocialService"
	errorDomain  = "socialmedia"
	methodPrefix = "/" + serviceName + "/"
)

// Full method names, as seen by interceptors.
const (
	RegisterMethod   = methodPrefix + "Register"
	LoginMethod      = methodPrefix + "Login"
	CreatePostMethod = methodPrefix + "CreatePost"
	GetPostMethod    = methodPrefix + "GetPost"
	UpdatePostMethod = methodPrefix + "UpdatePost"
	DeletePostMethod = methodPrefix + "DeletePost"
	ListPostsMethod  = methodPrefix + "ListPosts"
	VoteMethod       = methodPrefix + "Vote"
)

// SocialServiceServer is the server API for SocialService.
type SocialServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreatePost(context.Context, *CreatePostRequest) (*PostResponse, error)
	GetPost(context.Context, *GetPostRequest) (*PostResponse, error)
	UpdatePost(context.Context, *UpdatePostRequest) (*PostResponse, error)
	DeletePost(context.Context, *DeletePostRequest) (*DeletePostResponse, error)
	ListPosts(context.Context, *ListPostsRequest) (*ListPostsResponse, error)
	Vote(context.Context, *VoteRequest) (*VoteResponse, error)
}

// unary builds a MethodDesc that decodes Req and dispatches through the
// server's interceptor chain.
func unary[Req, Resp any](name string, call func(SocialServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := methodPrefix + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(SocialServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// SocialServiceDesc describes SocialService for grpc.Server.RegisterService.
var SocialServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SocialServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", SocialServiceServer.Register),
		unary("Login", SocialServiceServer.Login),
		unary("CreatePost", SocialServiceServer.CreatePost),
		unary("GetPost", SocialServiceServer.GetPost),
		unary("UpdatePost", SocialServiceServer.UpdatePost),
		unary("DeletePost", SocialServiceServer.DeletePost),
		unary("ListPosts", SocialServiceServer.ListPosts),
		unary("Vote", SocialServiceServer.Vote),
	},
	Streams: []grpc.StreamDesc{},
}

// Server implements SocialServiceServer on top of service.Service.
type Server struct {
	svc *service.Service
	log *slog.Logger
}

var _ SocialServiceServer = (*Server)(nil)

// NewServer builds a Server.
func NewServer(svc *service.Service, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{svc: svc, log: log}
}

// Register creates an account. It is reachable without a token.
func (s *Server) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	u, err := s.svc.Register(ctx, service.RegisterInput{Username: req.Username, Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RegisterResponse{User: u}, nil
}

// Login issues a bearer token. It is reachable without a token.
func (s *Server) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	tok, err := s.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &LoginResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType, ExpiresIn: tok.ExpiresIn}, nil
}

func (s *Server) CreatePost(ctx context.Context, req *CreatePostRequest) (*PostResponse, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.CreatePost(ctx, u, service.PostInput{Title: req.Title, Content: req.Content, Published: req.Published})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &PostResponse{Post: p}, nil
}

func (s *Server) GetPost(ctx context.Context, req *GetPostRequest) (*PostResponse, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.GetPost(ctx, u, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &PostResponse{Post: p}, nil
}

func (s *Server) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*PostResponse, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	upd := models.PostUpdate{Title: req.Title, Content: req.Content, Published: req.Published}
	p, err := s.svc.UpdatePost(ctx, u, req.ID, upd)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &PostResponse{Post: p}, nil
}

func (s *Server) DeletePost(ctx context.Context, req *DeletePostRequest) (*DeletePostResponse, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.DeletePost(ctx, u, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &DeletePostResponse{}, nil
}

// ListPosts returns the caller's posts. A zero limit selects the default page size.
func (s *Server) ListPosts(ctx context.Context, req *ListPostsRequest) (*ListPostsResponse, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	list, err := s.svc.ListPosts(ctx, u, service.ListParams{
		Offset:    req.Offset,
		Limit:     limit,
		Published: req.Published,
		Search:    req.Search,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ListPostsResponse{Posts: list}, nil
}

func (s *Server) Vote(ctx context.Context, req *VoteRequest) (*VoteResponse, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Dir == nil {
		return nil, status.Error(codes.InvalidArgument, "dir: is required")
	}
	out, err := s.svc.Vote(ctx, u, req.PostID, ledger.Direction(*req.Dir))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &VoteResponse{Message: out.Message()}, nil
}

// toStatus maps the apperr taxonomy onto gRPC codes. Conflicts carry their
// reason as an ErrorInfo detail.
func (s *Server) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, apperr.ErrUnauthenticated.Error())
	case errors.Is(err, apperr.ErrIdentityNotFound):
		return status.Error(codes.NotFound, apperr.ErrIdentityNotFound.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return status.Error(codes.PermissionDenied, apperr.ErrForbidden.Error())
	case errors.Is(err, apperr.ErrConflict):
		reason := apperr.ReasonOf(err)
		code := codes.Aborted
		if reason == apperr.ReasonDuplicate {
			code = codes.AlreadyExists
		}
		st := status.New(code, err.Error())
		if reason != "" {
			if withInfo, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: errorDomain}); derr == nil {
				st = withInfo
			}
		}
		return st.Err()
	case errors.Is(err, apperr.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.log.ErrorContext(ctx, "grpc call failed", "err", err)
		return status.Error(codes.Internal, "internal error")
	}
}
