package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type menuSeed struct {
	Name        string
	Price       int64
	Category    string
	SubCategory string
	Stock       int
}

type staffSeed struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Apply inserts basic seed data for manual testing. It is idempotent.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	items := []menuSeed{
		{Name: "Masala Tea", Price: 10, Category: "Snacks", SubCategory: "Beverages", Stock: 200},
		{Name: "Filter Coffee", Price: 15, Category: "Snacks", SubCategory: "Beverages", Stock: 200},
		{Name: "Idli Sambar", Price: 30, Category: "Breakfast", Stock: 80},
		{Name: "Masala Dosa", Price: 45, Category: "Breakfast", Stock: 60},
		{Name: "Veg Thali", Price: 80, Category: "Lunch", Stock: 100},
		{Name: "Samosa", Price: 15, Category: "Snacks", Stock: 150},
	}
	for _, item := range items {
		if err := ensureMenuItem(ctx, pool, item); err != nil {
			return fmt.Errorf("ensure menu item %s: %w", item.Name, err)
		}
	}

	accounts := []staffSeed{
		{Name: "Canteen Admin", Email: "admin@canteen.local", Password: "admin-pass-1", Role: "admin"},
		{Name: "Head Chef", Email: "chef@canteen.local", Password: "chef-pass-1", Role: "chef"},
	}
	for _, account := range accounts {
		if err := ensureStaff(ctx, pool, account); err != nil {
			return fmt.Errorf("ensure staff %s: %w", account.Email, err)
		}
	}

	if err := ensureCampaign(ctx, pool, "Breakfast Special", 10, "Breakfast"); err != nil {
		return fmt.Errorf("ensure campaign: %w", err)
	}

	return nil
}

func ensureMenuItem(ctx context.Context, pool *pgxpool.Pool, item menuSeed) error {
	const q = `
INSERT INTO menu_items (name, price, category, sub_category, stock)
SELECT $1, $2, $3, $4, $5
WHERE NOT EXISTS (SELECT 1 FROM menu_items WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, item.Name, item.Price, item.Category, item.SubCategory, item.Stock)
	return err
}

func ensureStaff(ctx context.Context, pool *pgxpool.Pool, account staffSeed) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO staff (name, username, email, password_hash, role)
VALUES ($1, split_part($2, '@', 1), $2, $3, $4)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, account.Name, account.Email, string(hashed), account.Role)
	return err
}

// ensureCampaign creates one discount campaign over a whole category's
// current items, valid for the next 30 days.
func ensureCampaign(ctx context.Context, pool *pgxpool.Pool, name string, percent int, category string) error {
	const q = `
INSERT INTO campaigns (name, discount_percent, start_date, end_date, start_time, end_time, applicable_item_ids)
SELECT $1, $2, current_date, current_date + 30, '00:00', '23:59',
       COALESCE(array_agg(id::text), '{}')
FROM menu_items
WHERE category = $3
  AND NOT EXISTS (SELECT 1 FROM campaigns WHERE name = $1)
HAVING count(*) > 0
`
	_, err := pool.Exec(ctx, q, name, percent, category)
	return err
}
