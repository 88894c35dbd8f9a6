package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCartLinesMigrationContainsUniqueGuard(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_lines.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart lines migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_lines",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_user_product_recipe",
		"ON cart_lines (user_id, product_id, recipe_id)",
		"CHECK (quantity >= 1)",
		"DROP TABLE IF EXISTS cart_lines",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsStatuses(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CHECK (status IN ('pending', 'confirmed', 'shipped', 'delivered', 'cancelled'))",
		"CHECK (payment_status IN ('unpaid', 'paid', 'refunded'))",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
