package enums

import "testing"

func TestOrderStatusNext(t *testing.T) {
	cases := []struct {
		in   OrderStatus
		want OrderStatus
		ok   bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusCompleted, "", false},
		{OrderStatusCancelled, "", false},
		{OrderStatus("unknown"), "", false},
	}
	for _, tc := range cases {
		got, ok := tc.in.Next()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Next(%s) = (%q,%v), want (%q,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	for _, s := range OrderStatuses() {
		want := s == OrderStatusCompleted || s == OrderStatusCancelled
		if got := s.IsTerminal(); got != want {
			t.Fatalf("%s: IsTerminal=%v want %v", s, got, want)
		}
	}
}

func TestOrderStatusParse(t *testing.T) {
	if _, err := ParseOrderStatus("cancelled"); err != nil {
		t.Fatalf("expected cancelled to parse: %v", err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if OrderStatusCancelled.StageIndex() != -1 {
		t.Fatal("cancelled should not be a board stage")
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !RoleStudent.Can(CapabilityPlaceOrders) || RoleStudent.Can(CapabilityManageOrders) || RoleStudent.Can(CapabilityViewAnalytics) {
		t.Fatal("unexpected student capabilities")
	}
	for _, c := range []Capability{CapabilityManageOrders, CapabilityManageInventory, CapabilityManageMenu, CapabilityViewAnalytics} {
		if !RoleAdmin.Can(c) {
			t.Fatalf("admin should hold %s", c)
		}
	}
	if RoleAdmin.Can(CapabilityPlaceOrders) {
		t.Fatal("admin should not place student orders")
	}
	if Role("guest").Can(CapabilityPlaceOrders) {
		t.Fatal("unknown role should grant nothing")
	}
	if _, err := ParseRole("guest"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
	caps := RoleStudent.Capabilities()
	if len(caps) != 2 || caps[0] != CapabilityPlaceOrders {
		t.Fatalf("unexpected student capability list %v", caps)
	}
	caps[0] = CapabilityManageOrders
	if RoleStudent.Can(CapabilityManageOrders) {
		t.Fatal("capability list must be a copy")
	}
	if len(Role("guest").Capabilities()) != 0 {
		t.Fatal("unknown role should list nothing")
	}
}

func TestStockStatusSeverity(t *testing.T) {
	if !(StockStatusCritical.Severity() < StockStatusLow.Severity() && StockStatusLow.Severity() < StockStatusGood.Severity()) {
		t.Fatal("severity ordering broken")
	}
}

func TestParseCollection(t *testing.T) {
	if c, err := ParseCollection("orders"); err != nil || c != CollectionOrders {
		t.Fatalf("unexpected parse result %q %v", c, err)
	}
	if _, err := ParseCollection("carts"); err == nil {
		t.Fatal("expected unknown collection to fail")
	}
	if !ChangeDelete.IsValid() || ChangeKind("UPSERT").IsValid() {
		t.Fatal("unexpected change kind validity")
	}
}
