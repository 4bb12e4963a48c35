package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	orderColumns = `id, order_number, customer_id, customer_email, shipping_address, status, total_minor, created_at, updated_at`
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create сохраняет заказ и все его позиции в одной транзакции
// и присваивает суррогатные идентификаторы.
func (r *orderRepository) Create(order *domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	order.ID = uuid.NewString()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_id, customer_email, shipping_address,
			status, total_minor, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		order.ID, order.OrderNumber, order.CustomerID, order.CustomerEmail,
		order.ShippingAddress, string(order.Status), order.TotalMinor,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		item := order.Items[i]
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, product_name, qty, price_minor, subtotal_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			item.ID, order.ID, item.ProductID, item.ProductName,
			item.Qty, item.PriceMinor, item.SubtotalMinor, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

// GetByID возвращает заказ с позициями одним проходом (без two-step anomaly).
func (r *orderRepository) GetByID(id string) (domain.Order, error) {
	return r.getOne(`WHERE id = $1`, id)
}

// GetByNumber возвращает заказ по уникальному бизнес-номеру.
func (r *orderRepository) GetByNumber(orderNumber string) (domain.Order, error) {
	return r.getOne(`WHERE order_number = $1`, orderNumber)
}

func (r *orderRepository) getOne(where, key string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders `+where, key)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.NewNotFound(key)
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

// List возвращает страницу всех заказов с сортировкой по белому списку колонок.
func (r *orderRepository) List(page domain.PageRequest) (domain.OrderPage, error) {
	return r.list(``, nil, page)
}

// ListByCustomer возвращает страницу заказов клиента.
func (r *orderRepository) ListByCustomer(customerID string, page domain.PageRequest) (domain.OrderPage, error) {
	return r.list(`WHERE customer_id = $1`, []interface{}{customerID}, page)
}

func (r *orderRepository) list(where string, args []interface{}, page domain.PageRequest) (domain.OrderPage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return domain.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM orders %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		orderColumns, where, sortColumn(page.SortBy), sortDirection(page.Direction),
		sortDirection(page.Direction), len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return domain.OrderPage{}, fmt.Errorf("scan order row: %w", err)
		}
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return domain.OrderPage{}, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("iterate order rows: %w", err)
	}

	return domain.OrderPage{
		Orders:     orders,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: total,
	}, nil
}

// UpdateStatus устанавливает новый статус и возвращает обновлённый заказ.
func (r *orderRepository) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    updated_at = $2
		WHERE id = $3
	`, string(status), time.Now().UTC(), id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Order{}, domain.NewNotFound(id)
	}

	return r.GetByID(id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerID, &order.CustomerEmail,
		&order.ShippingAddress, &status, &order.TotalMinor,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, qty, price_minor, subtotal_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName,
			&item.Qty, &item.PriceMinor, &item.SubtotalMinor, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

// sortColumn сводит пользовательский sortBy к белому списку колонок,
// чтобы исключить SQL-инъекцию через параметр сортировки.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "order_number":
		return "order_number"
	case "status":
		return "status"
	default:
		return "created_at"
	}
}

func sortDirection(direction domain.SortDirection) string {
	if direction == domain.SortAsc {
		return "ASC"
	}
	return "DESC"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
