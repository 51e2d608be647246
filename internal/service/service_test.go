package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/scanner"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
	"github.com/reginaldodesouza61/listas-compras/internal/storage/sqlite"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
	"github.com/reginaldodesouza61/listas-compras/pkg/api/apiconnect"
)

// recordingNotifier remembers every notification.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n models.Notification, members []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return len(members), nil
}

type fakeProducts struct{}

func (fakeProducts) Search(ctx context.Context, query string) []models.Product {
	if len(query) < 2 {
		return nil
	}
	return []models.Product{{Code: "7891000100103", Name: "Leite Integral", Brand: "Itambé"}}
}

func (fakeProducts) LookupBarcode(ctx context.Context, code string) (models.Product, bool) {
	if code != "7891000100103" {
		return models.Product{}, false
	}
	return models.Product{Code: code, Name: "Leite Integral", Brand: "Itambé", Quantity: "1 L"}, true
}

type testServer struct {
	url      string
	store    *sqlite.SQLiteStore
	notifier *recordingNotifier
}

// setupTestServer serves every service over httptest with real JWT auth.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	lists := shopping.NewListStore(store)
	items := shopping.NewItemStore(store)
	notifier := &recordingNotifier{}

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), nil, jwtManager, store,
		PushConfig{Enabled: true, VAPIDKey: "vapid-public", ProjectID: "listas"}, slog.Default())

	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(nil))
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(nil))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, optional))
	mux.Handle(apiconnect.NewListServiceHandler(NewListService(lists, notifier, nil), required))
	mux.Handle(apiconnect.NewItemServiceHandler(NewItemService(lists, items, nil), required))
	mux.Handle(apiconnect.NewProductServiceHandler(NewProductService(fakeProducts{}, scanner.NewZXingDecoder(), nil), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, store: store, notifier: notifier}
}

func (ts *testServer) authClient(token string) apiconnect.AuthServiceClient {
	return apiconnect.NewAuthServiceClient(http.DefaultClient, ts.url, connect.WithInterceptors(middleware.BearerInterceptor(token)))
}

func (ts *testServer) listClient(token string) apiconnect.ListServiceClient {
	return apiconnect.NewListServiceClient(http.DefaultClient, ts.url, connect.WithInterceptors(middleware.BearerInterceptor(token)))
}

func (ts *testServer) itemClient(token string) apiconnect.ItemServiceClient {
	return apiconnect.NewItemServiceClient(http.DefaultClient, ts.url, connect.WithInterceptors(middleware.BearerInterceptor(token)))
}

func (ts *testServer) productClient(token string) apiconnect.ProductServiceClient {
	return apiconnect.NewProductServiceClient(http.DefaultClient, ts.url, connect.WithInterceptors(middleware.BearerInterceptor(token)))
}

type session struct {
	token string
	user  *api.User
}

func (ts *testServer) signUp(t *testing.T, email, name string) session {
	t.Helper()
	resp, err := ts.authClient("").Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "senha-segura",
	}))
	if err != nil {
		t.Fatalf("Register %s failed: %v", email, err)
	}
	return session{token: resp.Msg.Token, user: resp.Msg.User}
}

func (ts *testServer) createList(t *testing.T, s session, name string) *api.List {
	t.Helper()
	ctx := context.Background()
	client := ts.listClient(s.token)
	created, err := client.CreateList(ctx, connect.NewRequest(&api.CreateListRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	got, err := client.GetList(ctx, connect.NewRequest(&api.GetListRequest{ListId: created.Msg.ListId}))
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	return got.Msg.List
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

// receiveUntil reads stream messages until cond holds.
func receiveUntil[T any](t *testing.T, stream *connect.ServerStreamForClient[T], cond func(*T) bool) *T {
	t.Helper()
	for stream.Receive() {
		if msg := stream.Msg(); cond(msg) {
			return msg
		}
	}
	t.Fatalf("stream ended before condition held: %v", stream.Err())
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	ana := ts.signUp(t, "ana@example.com", "")
	if ana.user.DisplayName != "ana" {
		t.Errorf("display name: expected 'ana', got '%s'", ana.user.DisplayName)
	}

	client := ts.authClient("")
	login, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "ana@example.com", Password: "senha-segura"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.Id != ana.user.Id {
		t.Errorf("expected user %s, got %s", ana.user.Id, login.Msg.User.Id)
	}

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "ana@example.com", Password: "errada-123"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = client.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "ana@example.com", Password: "senha-segura"}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = client.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "bia@example.com", Password: "curta"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	me, err := ts.authClient(login.Msg.Token).GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.Email != "ana@example.com" {
		t.Errorf("email: expected 'ana@example.com', got '%s'", me.Msg.User.Email)
	}

	_, err = client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")

	client := ts.authClient(ana.token)
	if _, err := client.Logout(ctx, connect.NewRequest(&api.LogoutRequest{})); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err := ts.listClient(ana.token).CreateList(ctx, connect.NewRequest(&api.CreateListRequest{Name: "Mercado"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestLoginWithProviderNotConfigured(t *testing.T) {
	ts := setupTestServer(t)
	_, err := ts.authClient("").LoginWithProvider(context.Background(), connect.NewRequest(&api.LoginWithProviderRequest{IdToken: "token"}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestPushRegistration(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")
	client := ts.authClient(ana.token)

	cfg, err := client.GetPushConfig(ctx, connect.NewRequest(&api.GetPushConfigRequest{}))
	if err != nil {
		t.Fatalf("GetPushConfig failed: %v", err)
	}
	if !cfg.Msg.Enabled || cfg.Msg.VapidKey != "vapid-public" {
		t.Errorf("unexpected push config %+v", cfg.Msg)
	}

	if _, err := client.RegisterPushToken(ctx, connect.NewRequest(&api.RegisterPushTokenRequest{Token: "device-1"})); err != nil {
		t.Fatalf("RegisterPushToken failed: %v", err)
	}
	_, err = client.RegisterPushToken(ctx, connect.NewRequest(&api.RegisterPushTokenRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	tokens, err := ts.store.GetPushTokens(ctx, []string{ana.user.Id})
	if err != nil {
		t.Fatalf("GetPushTokens failed: %v", err)
	}
	if len(tokens[ana.user.Id]) != 1 || tokens[ana.user.Id][0] != "device-1" {
		t.Errorf("unexpected tokens %v", tokens)
	}
}

func TestUnauthenticatedListAccess(t *testing.T) {
	ts := setupTestServer(t)
	_, err := ts.listClient("").CreateList(context.Background(), connect.NewRequest(&api.CreateListRequest{Name: "Mercado"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = ts.listClient("not-a-jwt").CreateList(context.Background(), connect.NewRequest(&api.CreateListRequest{Name: "Mercado"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestListLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")
	bia := ts.signUp(t, "bia@example.com", "Bia")

	list := ts.createList(t, ana, "Mercado")
	if list.OwnerId != ana.user.Id || len(list.ShareCode) != models.ShareCodeLength {
		t.Fatalf("unexpected list %+v", list)
	}

	anaLists := ts.listClient(ana.token)
	biaLists := ts.listClient(bia.token)

	_, err := biaLists.GetList(ctx, connect.NewRequest(&api.GetListRequest{ListId: list.Id}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = anaLists.ShareList(ctx, connect.NewRequest(&api.ShareListRequest{ListId: list.Id, Email: "nobody@example.com"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = anaLists.ShareList(ctx, connect.NewRequest(&api.ShareListRequest{ListId: list.Id, Email: "bia"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := anaLists.ShareList(ctx, connect.NewRequest(&api.ShareListRequest{ListId: list.Id, Email: "bia@example.com"})); err != nil {
		t.Fatalf("ShareList failed: %v", err)
	}

	members, err := biaLists.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{ListId: list.Id}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members.Msg.Members) != 2 {
		t.Fatalf("members: expected 2, got %d", len(members.Msg.Members))
	}
	for _, m := range members.Msg.Members {
		if m.IsOwner != (m.Id == ana.user.Id) {
			t.Errorf("owner flag wrong for %s", m.Email)
		}
	}

	name := "Feira"
	if _, err := biaLists.UpdateList(ctx, connect.NewRequest(&api.UpdateListRequest{ListId: list.Id, Name: &name})); err != nil {
		t.Fatalf("UpdateList failed: %v", err)
	}
	_, err = biaLists.UpdateList(ctx, connect.NewRequest(&api.UpdateListRequest{ListId: list.Id}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = biaLists.DeleteList(ctx, connect.NewRequest(&api.DeleteListRequest{ListId: list.Id}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := anaLists.DeleteList(ctx, connect.NewRequest(&api.DeleteListRequest{ListId: list.Id})); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	_, err = anaLists.GetList(ctx, connect.NewRequest(&api.GetListRequest{ListId: list.Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestJoinList(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")
	bia := ts.signUp(t, "bia@example.com", "Bia")
	list := ts.createList(t, ana, "Mercado")

	biaLists := ts.listClient(bia.token)

	tests := []struct {
		name string
		code string
		want connect.Code
	}{
		{"unknown code", "ZZZZZZ", connect.CodeNotFound},
		{"empty code", "  ", connect.CodeInvalidArgument},
		{"owner joins own list", list.ShareCode, connect.CodeAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := biaLists
			if tt.name == "owner joins own list" {
				client = ts.listClient(ana.token)
			}
			_, err := client.JoinList(ctx, connect.NewRequest(&api.JoinListRequest{ShareCode: tt.code}))
			assertCode(t, err, tt.want)
		})
	}

	joined, err := biaLists.JoinList(ctx, connect.NewRequest(&api.JoinListRequest{ShareCode: " " + toLower(list.ShareCode)}))
	if err != nil {
		t.Fatalf("JoinList failed: %v", err)
	}
	if joined.Msg.ListId != list.Id {
		t.Errorf("expected list %s, got %s", list.Id, joined.Msg.ListId)
	}

	_, err = biaLists.JoinList(ctx, connect.NewRequest(&api.JoinListRequest{ShareCode: list.ShareCode}))
	assertCode(t, err, connect.CodeAlreadyExists)
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func TestRemoveMember(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")
	bia := ts.signUp(t, "bia@example.com", "Bia")
	list := ts.createList(t, ana, "Mercado")

	anaLists := ts.listClient(ana.token)
	biaLists := ts.listClient(bia.token)
	if _, err := biaLists.JoinList(ctx, connect.NewRequest(&api.JoinListRequest{ShareCode: list.ShareCode})); err != nil {
		t.Fatalf("JoinList failed: %v", err)
	}

	_, err := biaLists.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{ListId: list.Id, UserId: ana.user.Id}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = anaLists.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{ListId: list.Id, UserId: ana.user.Id}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = anaLists.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{ListId: list.Id, UserId: "stranger"}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := anaLists.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{ListId: list.Id, UserId: bia.user.Id})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	_, err = biaLists.GetList(ctx, connect.NewRequest(&api.GetListRequest{ListId: list.Id}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestNotifyMembers(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")
	ts.signUp(t, "bia@example.com", "Bia")
	list := ts.createList(t, ana, "Mercado")
	client := ts.listClient(ana.token)

	_, err := client.NotifyMembers(ctx, connect.NewRequest(&api.NotifyMembersRequest{ListId: list.Id}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	if _, err := client.ShareList(ctx, connect.NewRequest(&api.ShareListRequest{ListId: list.Id, Email: "bia@example.com"})); err != nil {
		t.Fatalf("ShareList failed: %v", err)
	}

	resp, err := client.NotifyMembers(ctx, connect.NewRequest(&api.NotifyMembersRequest{ListId: list.Id}))
	if err != nil {
		t.Fatalf("NotifyMembers failed: %v", err)
	}
	if resp.Msg.NotifiedCount != 2 {
		t.Errorf("notified: expected 2, got %d", resp.Msg.NotifiedCount)
	}

	ts.notifier.mu.Lock()
	defer ts.notifier.mu.Unlock()
	if len(ts.notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(ts.notifier.sent))
	}
	n := ts.notifier.sent[0]
	if n.SenderID != ana.user.Id || n.Body != `Há novidades na lista "Mercado"` {
		t.Errorf("unexpected notification %+v", n)
	}
}

func TestSubscribeLists(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.signUp(t, "ana@example.com", "Ana")
	bia := ts.signUp(t, "bia@example.com", "Bia")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := ts.listClient(bia.token).SubscribeLists(ctx, connect.NewRequest(&api.SubscribeListsRequest{}))
	if err != nil {
		t.Fatalf("SubscribeLists failed: %v", err)
	}
	defer stream.Close()

	first := receiveUntil(t, stream, func(*api.SubscribeListsResponse) bool { return true })
	if len(first.Lists) != 0 {
		t.Fatalf("expected no lists, got %d", len(first.Lists))
	}

	list := ts.createList(t, ana, "Mercado")
	if _, err := ts.listClient(ana.token).ShareList(ctx, connect.NewRequest(&api.ShareListRequest{ListId: list.Id, Email: "bia@example.com"})); err != nil {
		t.Fatalf("ShareList failed: %v", err)
	}

	got := receiveUntil(t, stream, func(msg *api.SubscribeListsResponse) bool { return len(msg.Lists) == 1 })
	if got.Lists[0].Name != "Mercado" {
		t.Errorf("name: expected 'Mercado', got '%s'", got.Lists[0].Name)
	}
}

func TestItems(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.signUp(t, "ana@example.com", "Ana")
	bia := ts.signUp(t, "bia@example.com", "Bia")
	list := ts.createList(t, ana, "Mercado")
	other := ts.createList(t, ana, "Farmácia")
	items := ts.itemClient(ana.token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	qty, price := 2.0, 4.5
	added, err := items.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{
		ListId: list.Id, Name: "Leite", Quantity: &qty, UnitPrice: &price,
	}))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := items.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{ListId: list.Id, Name: "Pão"})); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	_, err = items.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{ListId: list.Id, Name: "  "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.itemClient(bia.token).AddItem(ctx, connect.NewRequest(&api.AddItemRequest{ListId: list.Id, Name: "Café"}))
	assertCode(t, err, connect.CodePermissionDenied)

	stream, err := items.SubscribeItems(ctx, connect.NewRequest(&api.SubscribeItemsRequest{ListId: list.Id, Query: "lei"}))
	if err != nil {
		t.Fatalf("SubscribeItems failed: %v", err)
	}
	defer stream.Close()

	snap := receiveUntil(t, stream, func(msg *api.SubscribeItemsResponse) bool { return len(msg.Items) == 1 })
	if snap.Items[0].LineTotal == nil || *snap.Items[0].LineTotal != 9 {
		t.Errorf("line total: expected 9, got %v", snap.Items[0].LineTotal)
	}
	if snap.Summary.ItemCount != 1 || snap.Summary.Total != 9 {
		t.Errorf("unexpected summary %+v", snap.Summary)
	}

	itemID := added.Msg.ItemId
	if _, err := items.ToggleItem(ctx, connect.NewRequest(&api.ToggleItemRequest{ListId: list.Id, ItemId: itemID, Completed: true})); err != nil {
		t.Fatalf("ToggleItem failed: %v", err)
	}
	snap = receiveUntil(t, stream, func(msg *api.SubscribeItemsResponse) bool { return msg.Summary.CompletedCount == 1 })
	if !snap.Items[0].Completed {
		t.Error("expected item completed")
	}

	_, err = items.ToggleItem(ctx, connect.NewRequest(&api.ToggleItemRequest{ListId: other.Id, ItemId: itemID, Completed: false}))
	assertCode(t, err, connect.CodeNotFound)

	zero := 0.0
	if _, err := items.EditItem(ctx, connect.NewRequest(&api.EditItemRequest{
		ListId: list.Id, ItemId: itemID, UnitPrice: &zero,
	})); err != nil {
		t.Fatalf("EditItem failed: %v", err)
	}
	snap = receiveUntil(t, stream, func(msg *api.SubscribeItemsResponse) bool { return msg.Items[0].UnitPrice == nil })
	if snap.Items[0].LineTotal != nil || snap.Summary.Total != 0 {
		t.Errorf("expected cleared price to drop the line total, got %+v", snap.Items[0])
	}

	if _, err := items.EditItem(ctx, connect.NewRequest(&api.EditItemRequest{
		ListId: list.Id, ItemId: itemID, UpdateMask: []string{api.FieldQuantity},
	})); err != nil {
		t.Fatalf("EditItem failed: %v", err)
	}
	receiveUntil(t, stream, func(msg *api.SubscribeItemsResponse) bool { return msg.Items[0].Quantity == nil })

	_, err = items.EditItem(ctx, connect.NewRequest(&api.EditItemRequest{
		ListId: list.Id, ItemId: itemID, UpdateMask: []string{"price"},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = items.EditItem(ctx, connect.NewRequest(&api.EditItemRequest{ListId: list.Id, ItemId: itemID}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := items.DeleteItem(ctx, connect.NewRequest(&api.DeleteItemRequest{ListId: list.Id, ItemId: itemID})); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	receiveUntil(t, stream, func(msg *api.SubscribeItemsResponse) bool { return len(msg.Items) == 0 })

	_, err = items.DeleteItem(ctx, connect.NewRequest(&api.DeleteItemRequest{ListId: list.Id, ItemId: itemID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestSubscribeItemsEndsWhenMemberRemoved(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.signUp(t, "ana@example.com", "Ana")
	bia := ts.signUp(t, "bia@example.com", "Bia")
	list := ts.createList(t, ana, "Mercado")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ts.listClient(bia.token).JoinList(ctx, connect.NewRequest(&api.JoinListRequest{ShareCode: list.ShareCode})); err != nil {
		t.Fatalf("JoinList failed: %v", err)
	}
	anaItems := ts.itemClient(ana.token)
	if _, err := anaItems.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{ListId: list.Id, Name: "Leite"})); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	stream, err := ts.itemClient(bia.token).SubscribeItems(ctx, connect.NewRequest(&api.SubscribeItemsRequest{ListId: list.Id}))
	if err != nil {
		t.Fatalf("SubscribeItems failed: %v", err)
	}
	defer stream.Close()
	receiveUntil(t, stream, func(msg *api.SubscribeItemsResponse) bool { return len(msg.Items) == 1 })

	if _, err := ts.listClient(ana.token).RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{ListId: list.Id, UserId: bia.user.Id})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if _, err := anaItems.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{ListId: list.Id, Name: "Segredo"})); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	for stream.Receive() {
		for _, item := range stream.Msg().Items {
			if item.Name == "Segredo" {
				t.Fatal("removed member received an item added after removal")
			}
		}
	}
	assertCode(t, stream.Err(), connect.CodePermissionDenied)
}

func TestToItemPatch(t *testing.T) {
	name := "Leite"
	qty := 3.0
	negative := -1.0

	tests := []struct {
		name    string
		req     *api.EditItemRequest
		check   func(t *testing.T, p models.ItemPatch)
		wantErr bool
	}{
		{
			name: "inferred from set fields",
			req:  &api.EditItemRequest{Name: &name, Quantity: &qty},
			check: func(t *testing.T, p models.ItemPatch) {
				if p.Name == nil || *p.Name != "Leite" || !p.Quantity.Set || *p.Quantity.Value != 3 {
					t.Errorf("unexpected patch %+v", p)
				}
				if p.UnitPrice.Set || p.Note != nil || p.Completed != nil {
					t.Errorf("unexpected extra fields %+v", p)
				}
			},
		},
		{
			name: "negative clears",
			req:  &api.EditItemRequest{Quantity: &negative},
			check: func(t *testing.T, p models.ItemPatch) {
				if !p.Quantity.Clears() {
					t.Errorf("expected quantity cleared, got %+v", p.Quantity)
				}
			},
		},
		{
			name: "masked nil clears",
			req:  &api.EditItemRequest{UpdateMask: []string{"unit_price"}},
			check: func(t *testing.T, p models.ItemPatch) {
				if !p.UnitPrice.Clears() {
					t.Errorf("expected unit price cleared, got %+v", p.UnitPrice)
				}
			},
		},
		{
			name:    "unknown field",
			req:     &api.EditItemRequest{UpdateMask: []string{"brand"}},
			wantErr: true,
		},
		{
			name: "empty request",
			req:  &api.EditItemRequest{},
			check: func(t *testing.T, p models.ItemPatch) {
				if !p.IsEmpty() {
					t.Errorf("expected empty patch, got %+v", p)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := toItemPatch(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, p)
			}
		})
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func renderEAN13(t *testing.T, contents string) image.Image {
	t.Helper()
	matrix, err := oned.NewEAN13Writer().Encode(contents, gozxing.BarcodeFormat_EAN_13, 400, 120, nil)
	if err != nil {
		t.Fatalf("failed to encode barcode: %v", err)
	}

	const border = 40
	img := image.NewGray(image.Rect(0, 0, matrix.GetWidth()+2*border, matrix.GetHeight()+2*border))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			if matrix.Get(x, y) {
				img.SetGray(x+border, y+border, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func TestProductService(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	ana := ts.signUp(t, "ana@example.com", "Ana")
	client := ts.productClient(ana.token)

	search, err := client.SearchProducts(ctx, connect.NewRequest(&api.SearchProductsRequest{Query: "leite"}))
	if err != nil {
		t.Fatalf("SearchProducts failed: %v", err)
	}
	if len(search.Msg.Products) != 1 {
		t.Errorf("products: expected 1, got %d", len(search.Msg.Products))
	}

	lookup, err := client.LookupBarcode(ctx, connect.NewRequest(&api.LookupBarcodeRequest{Barcode: "0000000000000"}))
	if err != nil {
		t.Fatalf("LookupBarcode failed: %v", err)
	}
	if lookup.Msg.Found {
		t.Error("expected unknown barcode not found")
	}

	decoded, err := client.DecodeBarcode(ctx, connect.NewRequest(&api.DecodeBarcodeRequest{
		Image: encodePNG(t, renderEAN13(t, "7891000100103")),
	}))
	if err != nil {
		t.Fatalf("DecodeBarcode failed: %v", err)
	}
	if decoded.Msg.Barcode != "7891000100103" || !decoded.Msg.Found || decoded.Msg.Product.Name != "Leite Integral" {
		t.Errorf("unexpected decode result %+v", decoded.Msg)
	}

	blank := image.NewGray(image.Rect(0, 0, 320, 240))
	draw.Draw(blank, blank.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	empty, err := client.DecodeBarcode(ctx, connect.NewRequest(&api.DecodeBarcodeRequest{Image: encodePNG(t, blank)}))
	if err != nil {
		t.Fatalf("DecodeBarcode failed: %v", err)
	}
	if empty.Msg.Barcode != "" || empty.Msg.Found {
		t.Errorf("expected no barcode, got %+v", empty.Msg)
	}

	_, err = client.DecodeBarcode(ctx, connect.NewRequest(&api.DecodeBarcodeRequest{Image: []byte("not an image")}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.productClient("").SearchProducts(ctx, connect.NewRequest(&api.SearchProductsRequest{Query: "leite"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{shopping.ErrInvalidArgument, connect.CodeInvalidArgument},
		{shopping.ErrNotFound, connect.CodeNotFound},
		{shopping.ErrUserNotFound, connect.CodeNotFound},
		{shopping.ErrAlreadyMember, connect.CodeAlreadyExists},
		{shopping.ErrPermissionDenied, connect.CodePermissionDenied},
		{shopping.ErrUnavailable, connect.CodeUnavailable},
		{auth.ErrInvalidToken, connect.CodeUnauthenticated},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{errors.New("boom"), connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := connect.CodeOf(toConnectError(tt.err)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
