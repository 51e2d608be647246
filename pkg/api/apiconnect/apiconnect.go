// Package apiconnect contains the Connect handlers and clients of the listas.v1 services.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

// PackagePrefix is the path prefix shared by every listas.v1 procedure.
const PackagePrefix = "/listas.v1."

// IsProcedurePath reports whether path addresses a listas.v1 procedure.
func IsProcedurePath(path string) bool {
	return strings.HasPrefix(path, PackagePrefix)
}

// Fully-qualified service names.
const (
	AuthServiceName    = "listas.v1.AuthService"
	ListServiceName    = "listas.v1.ListService"
	ItemServiceName    = "listas.v1.ItemService"
	ProductServiceName = "listas.v1.ProductService"
)

// Procedure paths, used by handlers, clients and interceptors.
const (
	AuthServiceRegisterProcedure          = "/listas.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/listas.v1.AuthService/Login"
	AuthServiceLoginWithProviderProcedure = "/listas.v1.AuthService/LoginWithProvider"
	AuthServiceLogoutProcedure            = "/listas.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure    = "/listas.v1.AuthService/GetCurrentUser"
	AuthServiceRegisterPushTokenProcedure = "/listas.v1.AuthService/RegisterPushToken"
	AuthServiceGetPushConfigProcedure     = "/listas.v1.AuthService/GetPushConfig"
	ListServiceSubscribeListsProcedure    = "/listas.v1.ListService/SubscribeLists"
	ListServiceGetListProcedure           = "/listas.v1.ListService/GetList"
	ListServiceCreateListProcedure        = "/listas.v1.ListService/CreateList"
	ListServiceUpdateListProcedure        = "/listas.v1.ListService/UpdateList"
	ListServiceDeleteListProcedure        = "/listas.v1.ListService/DeleteList"
	ListServiceShareListProcedure         = "/listas.v1.ListService/ShareList"
	ListServiceRemoveMemberProcedure      = "/listas.v1.ListService/RemoveMember"
	ListServiceJoinListProcedure          = "/listas.v1.ListService/JoinList"
	ListServiceListMembersProcedure       = "/listas.v1.ListService/ListMembers"
	ListServiceNotifyMembersProcedure     = "/listas.v1.ListService/NotifyMembers"
	ItemServiceSubscribeItemsProcedure    = "/listas.v1.ItemService/SubscribeItems"
	ItemServiceAddItemProcedure           = "/listas.v1.ItemService/AddItem"
	ItemServiceToggleItemProcedure        = "/listas.v1.ItemService/ToggleItem"
	ItemServiceDeleteItemProcedure        = "/listas.v1.ItemService/DeleteItem"
	ItemServiceEditItemProcedure          = "/listas.v1.ItemService/EditItem"
	ProductServiceSearchProductsProcedure = "/listas.v1.ProductService/SearchProducts"
	ProductServiceLookupBarcodeProcedure  = "/listas.v1.ProductService/LookupBarcode"
	ProductServiceDecodeBarcodeProcedure  = "/listas.v1.ProductService/DecodeBarcode"
)

func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)...)
}

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)...)
}

// AuthServiceClient is a client for the listas.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	LoginWithProvider(context.Context, *connect.Request[api.LoginWithProviderRequest]) (*connect.Response[api.LoginWithProviderResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	RegisterPushToken(context.Context, *connect.Request[api.RegisterPushTokenRequest]) (*connect.Response[api.RegisterPushTokenResponse], error)
	GetPushConfig(context.Context, *connect.Request[api.GetPushConfigRequest]) (*connect.Response[api.GetPushConfigResponse], error)
}

// NewAuthServiceClient constructs a client for the listas.v1.AuthService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &authServiceClient{
		register: connect.NewClient[api.RegisterRequest, api.RegisterResponse](
			httpClient,
			baseURL+AuthServiceRegisterProcedure,
			clientOptions(opts),
		),
		login: connect.NewClient[api.LoginRequest, api.LoginResponse](
			httpClient,
			baseURL+AuthServiceLoginProcedure,
			clientOptions(opts),
		),
		loginWithProvider: connect.NewClient[api.LoginWithProviderRequest, api.LoginWithProviderResponse](
			httpClient,
			baseURL+AuthServiceLoginWithProviderProcedure,
			clientOptions(opts),
		),
		logout: connect.NewClient[api.LogoutRequest, api.LogoutResponse](
			httpClient,
			baseURL+AuthServiceLogoutProcedure,
			clientOptions(opts),
		),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](
			httpClient,
			baseURL+AuthServiceGetCurrentUserProcedure,
			clientOptions(opts),
		),
		registerPushToken: connect.NewClient[api.RegisterPushTokenRequest, api.RegisterPushTokenResponse](
			httpClient,
			baseURL+AuthServiceRegisterPushTokenProcedure,
			clientOptions(opts),
		),
		getPushConfig: connect.NewClient[api.GetPushConfigRequest, api.GetPushConfigResponse](
			httpClient,
			baseURL+AuthServiceGetPushConfigProcedure,
			clientOptions(opts),
		),
	}
}

type authServiceClient struct {
	register          *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login             *connect.Client[api.LoginRequest, api.LoginResponse]
	loginWithProvider *connect.Client[api.LoginWithProviderRequest, api.LoginWithProviderResponse]
	logout            *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser    *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	registerPushToken *connect.Client[api.RegisterPushTokenRequest, api.RegisterPushTokenResponse]
	getPushConfig     *connect.Client[api.GetPushConfigRequest, api.GetPushConfigResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) LoginWithProvider(ctx context.Context, req *connect.Request[api.LoginWithProviderRequest]) (*connect.Response[api.LoginWithProviderResponse], error) {
	return c.loginWithProvider.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) RegisterPushToken(ctx context.Context, req *connect.Request[api.RegisterPushTokenRequest]) (*connect.Response[api.RegisterPushTokenResponse], error) {
	return c.registerPushToken.CallUnary(ctx, req)
}

func (c *authServiceClient) GetPushConfig(ctx context.Context, req *connect.Request[api.GetPushConfigRequest]) (*connect.Response[api.GetPushConfigResponse], error) {
	return c.getPushConfig.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of listas.v1.AuthService.
// AuthService signs users in and out and manages push registration.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	LoginWithProvider(context.Context, *connect.Request[api.LoginWithProviderRequest]) (*connect.Response[api.LoginWithProviderResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	RegisterPushToken(context.Context, *connect.Request[api.RegisterPushTokenRequest]) (*connect.Response[api.RegisterPushTokenResponse], error)
	GetPushConfig(context.Context, *connect.Request[api.GetPushConfigRequest]) (*connect.Response[api.GetPushConfigResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	registerHandler := connect.NewUnaryHandler(
		AuthServiceRegisterProcedure,
		svc.Register,
		handlerOptions(opts),
	)
	loginHandler := connect.NewUnaryHandler(
		AuthServiceLoginProcedure,
		svc.Login,
		handlerOptions(opts),
	)
	loginWithProviderHandler := connect.NewUnaryHandler(
		AuthServiceLoginWithProviderProcedure,
		svc.LoginWithProvider,
		handlerOptions(opts),
	)
	logoutHandler := connect.NewUnaryHandler(
		AuthServiceLogoutProcedure,
		svc.Logout,
		handlerOptions(opts),
	)
	getCurrentUserHandler := connect.NewUnaryHandler(
		AuthServiceGetCurrentUserProcedure,
		svc.GetCurrentUser,
		handlerOptions(opts),
	)
	registerPushTokenHandler := connect.NewUnaryHandler(
		AuthServiceRegisterPushTokenProcedure,
		svc.RegisterPushToken,
		handlerOptions(opts),
	)
	getPushConfigHandler := connect.NewUnaryHandler(
		AuthServiceGetPushConfigProcedure,
		svc.GetPushConfig,
		handlerOptions(opts),
	)
	return "/listas.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceLoginWithProviderProcedure:
			loginWithProviderHandler.ServeHTTP(w, r)
		case AuthServiceLogoutProcedure:
			logoutHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUserHandler.ServeHTTP(w, r)
		case AuthServiceRegisterPushTokenProcedure:
			registerPushTokenHandler.ServeHTTP(w, r)
		case AuthServiceGetPushConfigProcedure:
			getPushConfigHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.Register is not implemented"))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.Login is not implemented"))
}

func (UnimplementedAuthServiceHandler) LoginWithProvider(context.Context, *connect.Request[api.LoginWithProviderRequest]) (*connect.Response[api.LoginWithProviderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.LoginWithProvider is not implemented"))
}

func (UnimplementedAuthServiceHandler) Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.Logout is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.GetCurrentUser is not implemented"))
}

func (UnimplementedAuthServiceHandler) RegisterPushToken(context.Context, *connect.Request[api.RegisterPushTokenRequest]) (*connect.Response[api.RegisterPushTokenResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.RegisterPushToken is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetPushConfig(context.Context, *connect.Request[api.GetPushConfigRequest]) (*connect.Response[api.GetPushConfigResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.AuthService.GetPushConfig is not implemented"))
}

// ListServiceClient is a client for the listas.v1.ListService service.
type ListServiceClient interface {
	SubscribeLists(context.Context, *connect.Request[api.SubscribeListsRequest]) (*connect.ServerStreamForClient[api.SubscribeListsResponse], error)
	GetList(context.Context, *connect.Request[api.GetListRequest]) (*connect.Response[api.GetListResponse], error)
	CreateList(context.Context, *connect.Request[api.CreateListRequest]) (*connect.Response[api.CreateListResponse], error)
	UpdateList(context.Context, *connect.Request[api.UpdateListRequest]) (*connect.Response[api.UpdateListResponse], error)
	DeleteList(context.Context, *connect.Request[api.DeleteListRequest]) (*connect.Response[api.DeleteListResponse], error)
	ShareList(context.Context, *connect.Request[api.ShareListRequest]) (*connect.Response[api.ShareListResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	JoinList(context.Context, *connect.Request[api.JoinListRequest]) (*connect.Response[api.JoinListResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	NotifyMembers(context.Context, *connect.Request[api.NotifyMembersRequest]) (*connect.Response[api.NotifyMembersResponse], error)
}

// NewListServiceClient constructs a client for the listas.v1.ListService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewListServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ListServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &listServiceClient{
		subscribeLists: connect.NewClient[api.SubscribeListsRequest, api.SubscribeListsResponse](
			httpClient,
			baseURL+ListServiceSubscribeListsProcedure,
			clientOptions(opts),
		),
		getList: connect.NewClient[api.GetListRequest, api.GetListResponse](
			httpClient,
			baseURL+ListServiceGetListProcedure,
			clientOptions(opts),
		),
		createList: connect.NewClient[api.CreateListRequest, api.CreateListResponse](
			httpClient,
			baseURL+ListServiceCreateListProcedure,
			clientOptions(opts),
		),
		updateList: connect.NewClient[api.UpdateListRequest, api.UpdateListResponse](
			httpClient,
			baseURL+ListServiceUpdateListProcedure,
			clientOptions(opts),
		),
		deleteList: connect.NewClient[api.DeleteListRequest, api.DeleteListResponse](
			httpClient,
			baseURL+ListServiceDeleteListProcedure,
			clientOptions(opts),
		),
		shareList: connect.NewClient[api.ShareListRequest, api.ShareListResponse](
			httpClient,
			baseURL+ListServiceShareListProcedure,
			clientOptions(opts),
		),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](
			httpClient,
			baseURL+ListServiceRemoveMemberProcedure,
			clientOptions(opts),
		),
		joinList: connect.NewClient[api.JoinListRequest, api.JoinListResponse](
			httpClient,
			baseURL+ListServiceJoinListProcedure,
			clientOptions(opts),
		),
		listMembers: connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](
			httpClient,
			baseURL+ListServiceListMembersProcedure,
			clientOptions(opts),
		),
		notifyMembers: connect.NewClient[api.NotifyMembersRequest, api.NotifyMembersResponse](
			httpClient,
			baseURL+ListServiceNotifyMembersProcedure,
			clientOptions(opts),
		),
	}
}

type listServiceClient struct {
	subscribeLists *connect.Client[api.SubscribeListsRequest, api.SubscribeListsResponse]
	getList        *connect.Client[api.GetListRequest, api.GetListResponse]
	createList     *connect.Client[api.CreateListRequest, api.CreateListResponse]
	updateList     *connect.Client[api.UpdateListRequest, api.UpdateListResponse]
	deleteList     *connect.Client[api.DeleteListRequest, api.DeleteListResponse]
	shareList      *connect.Client[api.ShareListRequest, api.ShareListResponse]
	removeMember   *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	joinList       *connect.Client[api.JoinListRequest, api.JoinListResponse]
	listMembers    *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	notifyMembers  *connect.Client[api.NotifyMembersRequest, api.NotifyMembersResponse]
}

func (c *listServiceClient) SubscribeLists(ctx context.Context, req *connect.Request[api.SubscribeListsRequest]) (*connect.ServerStreamForClient[api.SubscribeListsResponse], error) {
	return c.subscribeLists.CallServerStream(ctx, req)
}

func (c *listServiceClient) GetList(ctx context.Context, req *connect.Request[api.GetListRequest]) (*connect.Response[api.GetListResponse], error) {
	return c.getList.CallUnary(ctx, req)
}

func (c *listServiceClient) CreateList(ctx context.Context, req *connect.Request[api.CreateListRequest]) (*connect.Response[api.CreateListResponse], error) {
	return c.createList.CallUnary(ctx, req)
}

func (c *listServiceClient) UpdateList(ctx context.Context, req *connect.Request[api.UpdateListRequest]) (*connect.Response[api.UpdateListResponse], error) {
	return c.updateList.CallUnary(ctx, req)
}

func (c *listServiceClient) DeleteList(ctx context.Context, req *connect.Request[api.DeleteListRequest]) (*connect.Response[api.DeleteListResponse], error) {
	return c.deleteList.CallUnary(ctx, req)
}

func (c *listServiceClient) ShareList(ctx context.Context, req *connect.Request[api.ShareListRequest]) (*connect.Response[api.ShareListResponse], error) {
	return c.shareList.CallUnary(ctx, req)
}

func (c *listServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *listServiceClient) JoinList(ctx context.Context, req *connect.Request[api.JoinListRequest]) (*connect.Response[api.JoinListResponse], error) {
	return c.joinList.CallUnary(ctx, req)
}

func (c *listServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *listServiceClient) NotifyMembers(ctx context.Context, req *connect.Request[api.NotifyMembersRequest]) (*connect.Response[api.NotifyMembersResponse], error) {
	return c.notifyMembers.CallUnary(ctx, req)
}

// ListServiceHandler is implemented by the server side of listas.v1.ListService.
// ListService manages shopping lists and their membership.
type ListServiceHandler interface {
	SubscribeLists(context.Context, *connect.Request[api.SubscribeListsRequest], *connect.ServerStream[api.SubscribeListsResponse]) error
	GetList(context.Context, *connect.Request[api.GetListRequest]) (*connect.Response[api.GetListResponse], error)
	CreateList(context.Context, *connect.Request[api.CreateListRequest]) (*connect.Response[api.CreateListResponse], error)
	UpdateList(context.Context, *connect.Request[api.UpdateListRequest]) (*connect.Response[api.UpdateListResponse], error)
	DeleteList(context.Context, *connect.Request[api.DeleteListRequest]) (*connect.Response[api.DeleteListResponse], error)
	ShareList(context.Context, *connect.Request[api.ShareListRequest]) (*connect.Response[api.ShareListResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	JoinList(context.Context, *connect.Request[api.JoinListRequest]) (*connect.Response[api.JoinListResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	NotifyMembers(context.Context, *connect.Request[api.NotifyMembersRequest]) (*connect.Response[api.NotifyMembersResponse], error)
}

// NewListServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewListServiceHandler(svc ListServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	subscribeListsHandler := connect.NewServerStreamHandler(
		ListServiceSubscribeListsProcedure,
		svc.SubscribeLists,
		handlerOptions(opts),
	)
	getListHandler := connect.NewUnaryHandler(
		ListServiceGetListProcedure,
		svc.GetList,
		handlerOptions(opts),
	)
	createListHandler := connect.NewUnaryHandler(
		ListServiceCreateListProcedure,
		svc.CreateList,
		handlerOptions(opts),
	)
	updateListHandler := connect.NewUnaryHandler(
		ListServiceUpdateListProcedure,
		svc.UpdateList,
		handlerOptions(opts),
	)
	deleteListHandler := connect.NewUnaryHandler(
		ListServiceDeleteListProcedure,
		svc.DeleteList,
		handlerOptions(opts),
	)
	shareListHandler := connect.NewUnaryHandler(
		ListServiceShareListProcedure,
		svc.ShareList,
		handlerOptions(opts),
	)
	removeMemberHandler := connect.NewUnaryHandler(
		ListServiceRemoveMemberProcedure,
		svc.RemoveMember,
		handlerOptions(opts),
	)
	joinListHandler := connect.NewUnaryHandler(
		ListServiceJoinListProcedure,
		svc.JoinList,
		handlerOptions(opts),
	)
	listMembersHandler := connect.NewUnaryHandler(
		ListServiceListMembersProcedure,
		svc.ListMembers,
		handlerOptions(opts),
	)
	notifyMembersHandler := connect.NewUnaryHandler(
		ListServiceNotifyMembersProcedure,
		svc.NotifyMembers,
		handlerOptions(opts),
	)
	return "/listas.v1.ListService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ListServiceSubscribeListsProcedure:
			subscribeListsHandler.ServeHTTP(w, r)
		case ListServiceGetListProcedure:
			getListHandler.ServeHTTP(w, r)
		case ListServiceCreateListProcedure:
			createListHandler.ServeHTTP(w, r)
		case ListServiceUpdateListProcedure:
			updateListHandler.ServeHTTP(w, r)
		case ListServiceDeleteListProcedure:
			deleteListHandler.ServeHTTP(w, r)
		case ListServiceShareListProcedure:
			shareListHandler.ServeHTTP(w, r)
		case ListServiceRemoveMemberProcedure:
			removeMemberHandler.ServeHTTP(w, r)
		case ListServiceJoinListProcedure:
			joinListHandler.ServeHTTP(w, r)
		case ListServiceListMembersProcedure:
			listMembersHandler.ServeHTTP(w, r)
		case ListServiceNotifyMembersProcedure:
			notifyMembersHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedListServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedListServiceHandler struct{}

func (UnimplementedListServiceHandler) SubscribeLists(context.Context, *connect.Request[api.SubscribeListsRequest], *connect.ServerStream[api.SubscribeListsResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.SubscribeLists is not implemented"))
}

func (UnimplementedListServiceHandler) GetList(context.Context, *connect.Request[api.GetListRequest]) (*connect.Response[api.GetListResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.GetList is not implemented"))
}

func (UnimplementedListServiceHandler) CreateList(context.Context, *connect.Request[api.CreateListRequest]) (*connect.Response[api.CreateListResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.CreateList is not implemented"))
}

func (UnimplementedListServiceHandler) UpdateList(context.Context, *connect.Request[api.UpdateListRequest]) (*connect.Response[api.UpdateListResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.UpdateList is not implemented"))
}

func (UnimplementedListServiceHandler) DeleteList(context.Context, *connect.Request[api.DeleteListRequest]) (*connect.Response[api.DeleteListResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.DeleteList is not implemented"))
}

func (UnimplementedListServiceHandler) ShareList(context.Context, *connect.Request[api.ShareListRequest]) (*connect.Response[api.ShareListResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.ShareList is not implemented"))
}

func (UnimplementedListServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.RemoveMember is not implemented"))
}

func (UnimplementedListServiceHandler) JoinList(context.Context, *connect.Request[api.JoinListRequest]) (*connect.Response[api.JoinListResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.JoinList is not implemented"))
}

func (UnimplementedListServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.ListMembers is not implemented"))
}

func (UnimplementedListServiceHandler) NotifyMembers(context.Context, *connect.Request[api.NotifyMembersRequest]) (*connect.Response[api.NotifyMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ListService.NotifyMembers is not implemented"))
}

// ItemServiceClient is a client for the listas.v1.ItemService service.
type ItemServiceClient interface {
	SubscribeItems(context.Context, *connect.Request[api.SubscribeItemsRequest]) (*connect.ServerStreamForClient[api.SubscribeItemsResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	ToggleItem(context.Context, *connect.Request[api.ToggleItemRequest]) (*connect.Response[api.ToggleItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	EditItem(context.Context, *connect.Request[api.EditItemRequest]) (*connect.Response[api.EditItemResponse], error)
}

// NewItemServiceClient constructs a client for the listas.v1.ItemService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewItemServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ItemServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &itemServiceClient{
		subscribeItems: connect.NewClient[api.SubscribeItemsRequest, api.SubscribeItemsResponse](
			httpClient,
			baseURL+ItemServiceSubscribeItemsProcedure,
			clientOptions(opts),
		),
		addItem: connect.NewClient[api.AddItemRequest, api.AddItemResponse](
			httpClient,
			baseURL+ItemServiceAddItemProcedure,
			clientOptions(opts),
		),
		toggleItem: connect.NewClient[api.ToggleItemRequest, api.ToggleItemResponse](
			httpClient,
			baseURL+ItemServiceToggleItemProcedure,
			clientOptions(opts),
		),
		deleteItem: connect.NewClient[api.DeleteItemRequest, api.DeleteItemResponse](
			httpClient,
			baseURL+ItemServiceDeleteItemProcedure,
			clientOptions(opts),
		),
		editItem: connect.NewClient[api.EditItemRequest, api.EditItemResponse](
			httpClient,
			baseURL+ItemServiceEditItemProcedure,
			clientOptions(opts),
		),
	}
}

type itemServiceClient struct {
	subscribeItems *connect.Client[api.SubscribeItemsRequest, api.SubscribeItemsResponse]
	addItem        *connect.Client[api.AddItemRequest, api.AddItemResponse]
	toggleItem     *connect.Client[api.ToggleItemRequest, api.ToggleItemResponse]
	deleteItem     *connect.Client[api.DeleteItemRequest, api.DeleteItemResponse]
	editItem       *connect.Client[api.EditItemRequest, api.EditItemResponse]
}

func (c *itemServiceClient) SubscribeItems(ctx context.Context, req *connect.Request[api.SubscribeItemsRequest]) (*connect.ServerStreamForClient[api.SubscribeItemsResponse], error) {
	return c.subscribeItems.CallServerStream(ctx, req)
}

func (c *itemServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) ToggleItem(ctx context.Context, req *connect.Request[api.ToggleItemRequest]) (*connect.Response[api.ToggleItemResponse], error) {
	return c.toggleItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return c.deleteItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) EditItem(ctx context.Context, req *connect.Request[api.EditItemRequest]) (*connect.Response[api.EditItemResponse], error) {
	return c.editItem.CallUnary(ctx, req)
}

// ItemServiceHandler is implemented by the server side of listas.v1.ItemService.
// ItemService manages the items of a list.
type ItemServiceHandler interface {
	SubscribeItems(context.Context, *connect.Request[api.SubscribeItemsRequest], *connect.ServerStream[api.SubscribeItemsResponse]) error
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	ToggleItem(context.Context, *connect.Request[api.ToggleItemRequest]) (*connect.Response[api.ToggleItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	EditItem(context.Context, *connect.Request[api.EditItemRequest]) (*connect.Response[api.EditItemResponse], error)
}

// NewItemServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewItemServiceHandler(svc ItemServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	subscribeItemsHandler := connect.NewServerStreamHandler(
		ItemServiceSubscribeItemsProcedure,
		svc.SubscribeItems,
		handlerOptions(opts),
	)
	addItemHandler := connect.NewUnaryHandler(
		ItemServiceAddItemProcedure,
		svc.AddItem,
		handlerOptions(opts),
	)
	toggleItemHandler := connect.NewUnaryHandler(
		ItemServiceToggleItemProcedure,
		svc.ToggleItem,
		handlerOptions(opts),
	)
	deleteItemHandler := connect.NewUnaryHandler(
		ItemServiceDeleteItemProcedure,
		svc.DeleteItem,
		handlerOptions(opts),
	)
	editItemHandler := connect.NewUnaryHandler(
		ItemServiceEditItemProcedure,
		svc.EditItem,
		handlerOptions(opts),
	)
	return "/listas.v1.ItemService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ItemServiceSubscribeItemsProcedure:
			subscribeItemsHandler.ServeHTTP(w, r)
		case ItemServiceAddItemProcedure:
			addItemHandler.ServeHTTP(w, r)
		case ItemServiceToggleItemProcedure:
			toggleItemHandler.ServeHTTP(w, r)
		case ItemServiceDeleteItemProcedure:
			deleteItemHandler.ServeHTTP(w, r)
		case ItemServiceEditItemProcedure:
			editItemHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedItemServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedItemServiceHandler struct{}

func (UnimplementedItemServiceHandler) SubscribeItems(context.Context, *connect.Request[api.SubscribeItemsRequest], *connect.ServerStream[api.SubscribeItemsResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ItemService.SubscribeItems is not implemented"))
}

func (UnimplementedItemServiceHandler) AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ItemService.AddItem is not implemented"))
}

func (UnimplementedItemServiceHandler) ToggleItem(context.Context, *connect.Request[api.ToggleItemRequest]) (*connect.Response[api.ToggleItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ItemService.ToggleItem is not implemented"))
}

func (UnimplementedItemServiceHandler) DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ItemService.DeleteItem is not implemented"))
}

func (UnimplementedItemServiceHandler) EditItem(context.Context, *connect.Request[api.EditItemRequest]) (*connect.Response[api.EditItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ItemService.EditItem is not implemented"))
}

// ProductServiceClient is a client for the listas.v1.ProductService service.
type ProductServiceClient interface {
	SearchProducts(context.Context, *connect.Request[api.SearchProductsRequest]) (*connect.Response[api.SearchProductsResponse], error)
	LookupBarcode(context.Context, *connect.Request[api.LookupBarcodeRequest]) (*connect.Response[api.LookupBarcodeResponse], error)
	DecodeBarcode(context.Context, *connect.Request[api.DecodeBarcodeRequest]) (*connect.Response[api.DecodeBarcodeResponse], error)
}

// NewProductServiceClient constructs a client for the listas.v1.ProductService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewProductServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProductServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &productServiceClient{
		searchProducts: connect.NewClient[api.SearchProductsRequest, api.SearchProductsResponse](
			httpClient,
			baseURL+ProductServiceSearchProductsProcedure,
			clientOptions(opts),
		),
		lookupBarcode: connect.NewClient[api.LookupBarcodeRequest, api.LookupBarcodeResponse](
			httpClient,
			baseURL+ProductServiceLookupBarcodeProcedure,
			clientOptions(opts),
		),
		decodeBarcode: connect.NewClient[api.DecodeBarcodeRequest, api.DecodeBarcodeResponse](
			httpClient,
			baseURL+ProductServiceDecodeBarcodeProcedure,
			clientOptions(opts),
		),
	}
}

type productServiceClient struct {
	searchProducts *connect.Client[api.SearchProductsRequest, api.SearchProductsResponse]
	lookupBarcode  *connect.Client[api.LookupBarcodeRequest, api.LookupBarcodeResponse]
	decodeBarcode  *connect.Client[api.DecodeBarcodeRequest, api.DecodeBarcodeResponse]
}

func (c *productServiceClient) SearchProducts(ctx context.Context, req *connect.Request[api.SearchProductsRequest]) (*connect.Response[api.SearchProductsResponse], error) {
	return c.searchProducts.CallUnary(ctx, req)
}

func (c *productServiceClient) LookupBarcode(ctx context.Context, req *connect.Request[api.LookupBarcodeRequest]) (*connect.Response[api.LookupBarcodeResponse], error) {
	return c.lookupBarcode.CallUnary(ctx, req)
}

func (c *productServiceClient) DecodeBarcode(ctx context.Context, req *connect.Request[api.DecodeBarcodeRequest]) (*connect.Response[api.DecodeBarcodeResponse], error) {
	return c.decodeBarcode.CallUnary(ctx, req)
}

// ProductServiceHandler is implemented by the server side of listas.v1.ProductService.
// ProductService queries the product database and decodes barcode frames.
type ProductServiceHandler interface {
	SearchProducts(context.Context, *connect.Request[api.SearchProductsRequest]) (*connect.Response[api.SearchProductsResponse], error)
	LookupBarcode(context.Context, *connect.Request[api.LookupBarcodeRequest]) (*connect.Response[api.LookupBarcodeResponse], error)
	DecodeBarcode(context.Context, *connect.Request[api.DecodeBarcodeRequest]) (*connect.Response[api.DecodeBarcodeResponse], error)
}

// NewProductServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewProductServiceHandler(svc ProductServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	searchProductsHandler := connect.NewUnaryHandler(
		ProductServiceSearchProductsProcedure,
		svc.SearchProducts,
		handlerOptions(opts),
	)
	lookupBarcodeHandler := connect.NewUnaryHandler(
		ProductServiceLookupBarcodeProcedure,
		svc.LookupBarcode,
		handlerOptions(opts),
	)
	decodeBarcodeHandler := connect.NewUnaryHandler(
		ProductServiceDecodeBarcodeProcedure,
		svc.DecodeBarcode,
		handlerOptions(opts),
	)
	return "/listas.v1.ProductService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProductServiceSearchProductsProcedure:
			searchProductsHandler.ServeHTTP(w, r)
		case ProductServiceLookupBarcodeProcedure:
			lookupBarcodeHandler.ServeHTTP(w, r)
		case ProductServiceDecodeBarcodeProcedure:
			decodeBarcodeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedProductServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedProductServiceHandler struct{}

func (UnimplementedProductServiceHandler) SearchProducts(context.Context, *connect.Request[api.SearchProductsRequest]) (*connect.Response[api.SearchProductsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ProductService.SearchProducts is not implemented"))
}

func (UnimplementedProductServiceHandler) LookupBarcode(context.Context, *connect.Request[api.LookupBarcodeRequest]) (*connect.Response[api.LookupBarcodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ProductService.LookupBarcode is not implemented"))
}

func (UnimplementedProductServiceHandler) DecodeBarcode(context.Context, *connect.Request[api.DecodeBarcodeRequest]) (*connect.Response[api.DecodeBarcodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("listas.v1.ProductService.DecodeBarcode is not implemented"))
}
