package entities

// PageKey is the canonical key under which access to a group of views is governed
type PageKey string

const (
	PageDashboard     PageKey = "DASHBOARD"
	PageNewOrder      PageKey = "NEW_ORDER"
	PageClients       PageKey = "CLIENTS"
	PageFinance       PageKey = "FINANCE"
	PageRegisterItem  PageKey = "REGISTER_ITEM"
	PageAdmin         PageKey = "ADMIN"
	PageSettings      PageKey = "SETTINGS"
	PageEditMyProfile PageKey = "EDIT_MY_PROFILE"
)

// Page is an entry of the static page catalog
type Page struct {
	Key  PageKey
	Name string // Display label shown in the permission editor
}

// PageCatalog is the static list of governed pages. It is never persisted.
var PageCatalog = []Page{
	{Key: PageDashboard, Name: "Dashboard"},
	{Key: PageNewOrder, Name: "Novo Pedido"},
	{Key: PageClients, Name: "Gestão de Clientes"},
	{Key: PageFinance, Name: "Fluxo de Caixa"},
	{Key: PageRegisterItem, Name: "Cadastro de Itens"},
	{Key: PageAdmin, Name: "Administração"},
	{Key: PageSettings, Name: "Configurações"},
	{Key: PageEditMyProfile, Name: "Meu Perfil"},
}

// LookupPage returns the catalog entry for the key
func LookupPage(key PageKey) (Page, bool) {
	for _, p := range PageCatalog {
		if p.Key == key {
			return p, true
		}
	}
	return Page{}, false
}
