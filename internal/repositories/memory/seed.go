package memory

import (
	"context"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

func perm(id, name string, key entities.PageKey, profileID string, r, w, d bool) *entities.PermissionRecord {
	return &entities.PermissionRecord{
		ID:         entities.PersistedID(id),
		PageName:   name,
		PageKey:    key,
		ProfileID:  profileID,
		Permission: entities.Permission{CanRead: r, CanWrite: w, CanDelete: d},
	}
}

// Seed fills the store with the demo profiles, users and permissions
// mirrored by the 000002_seed_profiles migration.
func Seed(ctx context.Context, s *Store) error {
	profiles := []*entities.Profile{
		{ID: entities.AdministratorProfileID, Name: "Administrador", Description: "Acesso total ao sistema"},
		{ID: "2", Name: "Operador", Description: "Operação de pedidos e clientes"},
		{ID: "3", Name: "Visualizador", Description: "Apenas leitura"},
	}
	for _, p := range profiles {
		if err := s.Profiles().Create(ctx, p); err != nil {
			return err
		}
	}

	users := []*entities.User{
		{ID: "1", Name: "Administrador Sistema", Email: "admin@erpr.com", ProfileID: "1", Role: entities.AdministratorRole},
		{ID: "2", Name: "João Silva", Email: "joao.silva@erpr.com", ProfileID: "2", Role: "Vendas"},
		{ID: "3", Name: "Maria Souza", Email: "maria.souza@erpr.com", ProfileID: "2", Role: "Atendimento"},
	}
	for _, u := range users {
		if err := s.Users().Create(ctx, u); err != nil {
			return err
		}
	}

	return s.Permissions().BatchUpsert(ctx, []*entities.PermissionRecord{
		perm("11", "Dashboard", entities.PageDashboard, "2", true, false, false),
		perm("12", "Novo Pedido", entities.PageNewOrder, "2", true, true, false),
		perm("13", "Gestão de Clientes", entities.PageClients, "2", true, false, false),
		perm("14", "Fluxo de Caixa", entities.PageFinance, "2", false, false, false),
		perm("16", "Cadastro de Itens", entities.PageRegisterItem, "2", true, false, false),
		perm("17", "Administração", entities.PageAdmin, "2", false, false, false),
		perm("31", "Dashboard", entities.PageDashboard, "3", true, false, false),
		perm("33", "Gestão de Clientes", entities.PageClients, "3", true, false, false),
		perm("34", "Fluxo de Caixa", entities.PageFinance, "3", true, false, false),
	})
}

// DemoTransactions returns the sample finance ledger shown by the demo console
func DemoTransactions() []entities.Transaction {
	return []entities.Transaction{
		{ID: "1", Date: "Hoje, 14:30", Description: "Pagamento #PED-2023-89", Category: "Vendas", Status: entities.TransactionConfirmed, Amount: 1250, Type: entities.TransactionIncome},
		{ID: "2", Date: "Ontem, 09:15", Description: "AWS Cloud Services", Category: "Infraestrutura", Status: entities.TransactionPaid, Amount: 450.90, Type: entities.TransactionExpense},
		{ID: "3", Date: "28 Out, 16:45", Description: "Consultoria Técnica", Category: "Serviços", Status: entities.TransactionPending, Amount: 3800, Type: entities.TransactionIncome},
	}
}
