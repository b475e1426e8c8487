package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle states. Orders are created as pending; later transitions
// happen outside the writer except cancellation, which releases reservations.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

const (
	AddressTypeHome    = "home"
	AddressTypeWork    = "work"
	AddressTypeBilling = "billing"
)

// DefaultPaymentMethod is applied when an order submission carries no method.
const DefaultPaymentMethod = "card"

type Product struct {
	ID          int64           `json:"product_id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CostPrice   decimal.Decimal `json:"cost_price" db:"cost_price"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	SKU         string          `json:"sku" db:"sku"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductView is the storefront listing row: product joined with its category,
// live availability, and the primary image URL when one exists.
type ProductView struct {
	ID                int64           `json:"product_id" db:"product_id"`
	Name              string          `json:"name" db:"name"`
	Description       string          `json:"description" db:"description"`
	Price             decimal.Decimal `json:"price" db:"price"`
	CategoryName      string          `json:"category_name" db:"category_name"`
	AvailableQuantity int             `json:"available_quantity" db:"available_quantity"`
	PrimaryImageURL   *string         `json:"image_url" db:"image_url"`
	CanPurchase       bool            `json:"can_purchase"`
}

// AdminProductView is the back-office listing row. Inventory and image joins
// are optional here: a product with no inventory row still shows up.
type AdminProductView struct {
	ID                int64           `json:"product_id" db:"product_id"`
	Name              string          `json:"name" db:"name"`
	Description       string          `json:"description" db:"description"`
	Price             decimal.Decimal `json:"price" db:"price"`
	CostPrice         decimal.Decimal `json:"cost_price" db:"cost_price"`
	CategoryName      string          `json:"category_name" db:"category_name"`
	SKU               string          `json:"sku" db:"sku"`
	IsActive          bool            `json:"is_active" db:"is_active"`
	AvailableQuantity *int            `json:"available_quantity" db:"available_quantity"`
	PrimaryImageURL   *string         `json:"image_url" db:"image_url"`
}

type Category struct {
	ID               int64     `json:"category_id" db:"category_id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	ParentCategoryID *int64    `json:"parent_category_id" db:"parent_category_id"`
	ImageURL         *string   `json:"image_url" db:"image_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// CategoryView carries the parent category name for the admin listing.
type CategoryView struct {
	ID               int64     `json:"category_id" db:"category_id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	ParentName       *string   `json:"parent_category" db:"parent_category"`
	ParentCategoryID *int64    `json:"parent_category_id" db:"parent_category_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type Inventory struct {
	ProductID        int64 `json:"product_id" db:"product_id"`
	Quantity         int   `json:"quantity" db:"quantity"`
	ReservedQuantity int   `json:"reserved_quantity" db:"reserved_quantity"`
}

// Available is the figure shown to buyers.
func (i Inventory) Available() int {
	return i.Quantity - i.ReservedQuantity
}

type Order struct {
	ID                int64           `json:"order_id" db:"order_id"`
	CustomerID        int64           `json:"customer_id" db:"customer_id"`
	OrderDate         time.Time       `json:"order_date" db:"order_date"`
	Status            string          `json:"status" db:"status"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	ShippingAddressID int64           `json:"shipping_address_id" db:"shipping_address_id"`
	PaymentMethod     string          `json:"payment_method" db:"payment_method"`
	Items             []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64           `json:"order_item_id" db:"order_item_id"`
	OrderID   int64           `json:"order_id" db:"order_id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// OrderSummary is the per-customer order listing row.
type OrderSummary struct {
	ID           int64           `json:"order_id" db:"order_id"`
	OrderDate    time.Time       `json:"order_date" db:"order_date"`
	Status       string          `json:"status" db:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount" db:"total_amount"`
	ItemsCount   int             `json:"items_count" db:"items_count"`
	CustomerName string          `json:"customer_name,omitempty" db:"customer_name"`
}

type Address struct {
	ID          int64  `json:"address_id" db:"address_id"`
	CustomerID  int64  `json:"customer_id" db:"customer_id"`
	AddressType string `json:"address_type" db:"address_type"`
	Street      string `json:"street" db:"street"`
	City        string `json:"city" db:"city"`
	PostalCode  string `json:"postal_code" db:"postal_code"`
	Country     string `json:"country" db:"country"`
}

type User struct {
	ID         int64      `json:"user_id" db:"user_id"`
	Email      string     `json:"email" db:"email"`
	Role       string     `json:"role" db:"role"`
	CustomerID *int64     `json:"customer_id" db:"customer_id"`
	FirstName  *string    `json:"first_name" db:"first_name"`
	LastName   *string    `json:"last_name" db:"last_name"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastLogin  *time.Time `json:"last_login" db:"last_login"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	Phone      *string    `json:"phone" db:"phone"`
}

// DailySales is one row of the 30-day sales report.
type DailySales struct {
	Day           time.Time       `json:"order_day" db:"order_day"`
	OrderCount    int             `json:"order_count" db:"order_count"`
	TotalSales    decimal.Decimal `json:"total_sales" db:"total_sales"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value" db:"avg_order_value"`
}

// CategorySales aggregates units sold and revenue per category,
// cancelled orders excluded.
type CategorySales struct {
	Category  string          `json:"category" db:"category"`
	TotalSold int             `json:"total_sold" db:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue" db:"revenue"`
}

type DashboardStats struct {
	TotalUsers     int             `json:"total_users"`
	TotalProducts  int             `json:"total_products"`
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
}
