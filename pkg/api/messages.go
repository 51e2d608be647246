package api

// User is a signed-in account.
type User struct {
	Id          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	PhotoUrl    string     `json:"photoUrl,omitempty"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
}

// List is a shopping list as seen by one of its members.
type List struct {
	Id           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	OwnerId      string            `json:"ownerId"`
	Members      []string          `json:"members"`
	MemberEmails map[string]string `json:"memberEmails,omitempty"`
	ShareCode    string            `json:"shareCode"`
	CreatedAt    *Timestamp        `json:"createdAt,omitempty"`
	UpdatedAt    *Timestamp        `json:"updatedAt,omitempty"`
}

// Item is a list entry. Quantity and UnitPrice are omitted when unset;
// LineTotal is present only when both are.
type Item struct {
	Id        string     `json:"id"`
	ListId    string     `json:"listId"`
	Name      string     `json:"name"`
	Quantity  *float64   `json:"quantity,omitempty"`
	UnitPrice *float64   `json:"unitPrice,omitempty"`
	LineTotal *float64   `json:"lineTotal,omitempty"`
	Note      string     `json:"note,omitempty"`
	Completed bool       `json:"completed"`
	AddedBy   string     `json:"addedBy"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// Member is the display projection of a list member.
type Member struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoUrl    string `json:"photoUrl,omitempty"`
	IsOwner     bool   `json:"isOwner"`
}

// Summary aggregates the items of a list.
type Summary struct {
	ItemCount      int32   `json:"itemCount"`
	CompletedCount int32   `json:"completedCount"`
	Total          float64 `json:"total"`
}

// Product is a record of the product database.
type Product struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	ImageUrl string `json:"imageUrl,omitempty"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoginWithProviderRequest carries an ID token from the external identity provider.
type LoginWithProviderRequest struct {
	IdToken string `json:"idToken"`
}

type LoginWithProviderResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type RegisterPushTokenRequest struct {
	Token string `json:"token"`
}

type RegisterPushTokenResponse struct{}

type GetPushConfigRequest struct{}

// GetPushConfigResponse tells web clients whether to request push permission.
type GetPushConfigResponse struct {
	Enabled   bool   `json:"enabled"`
	VapidKey  string `json:"vapidKey,omitempty"`
	ProjectId string `json:"projectId,omitempty"`
}

// ListService

type SubscribeListsRequest struct{}

// SubscribeListsResponse is one snapshot of the caller's lists, most recently updated first.
type SubscribeListsResponse struct {
	Lists []*List `json:"lists"`
}

type GetListRequest struct {
	ListId string `json:"listId"`
}

type GetListResponse struct {
	List *List `json:"list"`
}

type CreateListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateListResponse struct {
	ListId string `json:"listId"`
}

// UpdateListRequest leaves nil fields untouched.
type UpdateListRequest struct {
	ListId      string  `json:"listId"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateListResponse struct{}

type DeleteListRequest struct {
	ListId string `json:"listId"`
}

type DeleteListResponse struct{}

type ShareListRequest struct {
	ListId string `json:"listId"`
	Email  string `json:"email"`
}

type ShareListResponse struct{}

type RemoveMemberRequest struct {
	ListId string `json:"listId"`
	UserId string `json:"userId"`
}

type RemoveMemberResponse struct{}

type JoinListRequest struct {
	ShareCode string `json:"shareCode"`
}

type JoinListResponse struct {
	ListId string `json:"listId"`
}

type ListMembersRequest struct {
	ListId string `json:"listId"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type NotifyMembersRequest struct {
	ListId string `json:"listId"`
}

type NotifyMembersResponse struct {
	NotifiedCount int32 `json:"notifiedCount"`
}

// ItemService

// SubscribeItemsRequest opens a live item feed. Query filters the items by name;
// the summary still counts every item for the total.
type SubscribeItemsRequest struct {
	ListId string `json:"listId"`
	Query  string `json:"query,omitempty"`
}

type SubscribeItemsResponse struct {
	Items   []*Item  `json:"items"`
	Summary *Summary `json:"summary"`
}

type AddItemRequest struct {
	ListId    string   `json:"listId"`
	Name      string   `json:"name"`
	Quantity  *float64 `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Note      string   `json:"note,omitempty"`
}

type AddItemResponse struct {
	ItemId string `json:"itemId"`
}

type ToggleItemRequest struct {
	ListId    string `json:"listId"`
	ItemId    string `json:"itemId"`
	Completed bool   `json:"completed"`
}

type ToggleItemResponse struct{}

type DeleteItemRequest struct {
	ListId string `json:"listId"`
	ItemId string `json:"itemId"`
}

type DeleteItemResponse struct{}

// Item fields accepted in EditItemRequest.UpdateMask.
const (
	FieldName      = "name"
	FieldQuantity  = "quantity"
	FieldUnitPrice = "unitPrice"
	FieldNote      = "note"
	FieldCompleted = "completed"
)

// EditItemRequest updates the fields named in UpdateMask. Without a mask every
// non-nil field is updated. A masked Quantity or UnitPrice that is nil or <= 0
// clears the stored value.
type EditItemRequest struct {
	ListId     string   `json:"listId"`
	ItemId     string   `json:"itemId"`
	Name       *string  `json:"name,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	UnitPrice  *float64 `json:"unitPrice,omitempty"`
	Note       *string  `json:"note,omitempty"`
	Completed  *bool    `json:"completed,omitempty"`
	UpdateMask []string `json:"updateMask,omitempty"`
}

type EditItemResponse struct{}

// ProductService

type SearchProductsRequest struct {
	Query string `json:"query"`
}

type SearchProductsResponse struct {
	Products []*Product `json:"products"`
}

type LookupBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

type LookupBarcodeResponse struct {
	Found   bool     `json:"found"`
	Product *Product `json:"product,omitempty"`
}

// DecodeBarcodeRequest carries one camera frame, JPEG or PNG encoded.
type DecodeBarcodeRequest struct {
	Image []byte `json:"image"`
}

// DecodeBarcodeResponse reports the decoded barcode, if any, and its product, if known.
type DecodeBarcodeResponse struct {
	Barcode string   `json:"barcode,omitempty"`
	Found   bool     `json:"found"`
	Product *Product `json:"product,omitempty"`
}
