package rbac

// DefaultTable returns the built-in permission table used when no table has
// been persisted yet, or when the persisted one cannot be read. Admin gets
// every action on every resource; the other roles are authored independently
// (no inheritance between roles).
func DefaultTable() Table {
	adminEntries := make([]Entry, 0, len(KnownResources))
	for _, res := range KnownResources {
		adminEntries = append(adminEntries, Entry{
			Resource: res,
			Actions:  []Action{ActionView, ActionCreate, ActionEdit, ActionDelete},
		})
	}

	return Table{
		RoleAdmin: adminEntries,
		RoleManager: {
			{Resource: ResourceDashboard, Actions: []Action{ActionView}},
			{Resource: ResourceFarmers, Actions: []Action{ActionView, ActionCreate, ActionEdit}},
			{Resource: ResourceProducts, Actions: []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{Resource: ResourceSales, Actions: []Action{ActionView, ActionCreate, ActionEdit}},
			{Resource: ResourceTransactions, Actions: []Action{ActionView}},
			{Resource: ResourceEmployees, Actions: []Action{ActionView}},
			{Resource: ResourceCoupons, Actions: []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{Resource: ResourceTickets, Actions: []Action{ActionView, ActionEdit}},
			{Resource: ResourceCustomers, Actions: []Action{ActionView, ActionCreate, ActionEdit}},
			{Resource: ResourceSettlements, Actions: []Action{ActionView}},
		},
		RoleSalesExecutive: {
			{Resource: ResourceDashboard, Actions: []Action{ActionView}},
			{Resource: ResourceProducts, Actions: []Action{ActionView}},
			{Resource: ResourceSales, Actions: []Action{ActionView, ActionCreate}},
			{Resource: ResourceCoupons, Actions: []Action{ActionView}},
			{Resource: ResourceTickets, Actions: []Action{ActionView, ActionCreate}},
			{Resource: ResourceCustomers, Actions: []Action{ActionView, ActionCreate}},
		},
		RoleAccountant: {
			{Resource: ResourceDashboard, Actions: []Action{ActionView}},
			{Resource: ResourceSales, Actions: []Action{ActionView}},
			{Resource: ResourceTransactions, Actions: []Action{ActionView}},
			{Resource: ResourceSettlements, Actions: []Action{ActionView, ActionCreate}},
		},
	}
}
