package postgres

// SQL queries for the stock projection.
//
// Purchase-order qualification lives in the LEFT JOIN condition rather than
// WHERE so that products without qualifying orders still produce a row with a
// NULL expected_delivery_date. $now is bound by the caller, never NOW(), so a
// recomputation is evaluated at the aggregation call time.

const (
	// queryStockBySKU aggregates one product to its earliest qualifying delivery.
	queryStockBySKU = `
		SELECT
			p.sku,
			p.stock_quantity,
			MIN(po.expected_delivery_date) AS expected_delivery_date
		FROM products p
		LEFT JOIN product_purchase_orders ppo ON ppo.product_id = p.id
		LEFT JOIN purchase_orders po ON po.id = ppo.purchase_order_id
			AND po.status IN ('CONFIRMED', 'PENDING_DELIVERY')
			AND po.expected_delivery_date >= $2
		WHERE p.sku = $1
		GROUP BY p.id, p.sku, p.stock_quantity
	`

	// queryStockAll aggregates every product.
	// Ordered by stock desc with SKU as the deterministic tie-breaker.
	queryStockAll = `
		SELECT
			p.sku,
			p.stock_quantity,
			MIN(po.expected_delivery_date) AS expected_delivery_date
		FROM products p
		LEFT JOIN product_purchase_orders ppo ON ppo.product_id = p.id
		LEFT JOIN purchase_orders po ON po.id = ppo.purchase_order_id
			AND po.status IN ('CONFIRMED', 'PENDING_DELIVERY')
			AND po.expected_delivery_date >= $1
		GROUP BY p.id, p.sku, p.stock_quantity
		ORDER BY p.stock_quantity DESC, p.sku ASC
	`

	// queryOutstandingOrders lists qualifying purchase-order lines for one product.
	// The product row is always returned (with NULL order columns when nothing
	// qualifies) so an unknown SKU is distinguishable from an empty result.
	queryOutstandingOrders = `
		SELECT
			p.id,
			po.id,
			po.status,
			po.expected_delivery_date,
			ppo.quantity,
			ppo.subtotal
		FROM products p
		LEFT JOIN (
			product_purchase_orders ppo
			JOIN purchase_orders po ON po.id = ppo.purchase_order_id
				AND po.status IN ('CONFIRMED', 'PENDING_DELIVERY')
				AND po.expected_delivery_date >= $2
		) ON ppo.product_id = p.id
		WHERE p.sku = $1
		ORDER BY po.expected_delivery_date ASC NULLS LAST, po.id ASC
	`

	// queryRequiredTables counts the inventory tables present in the schema.
	queryRequiredTables = `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_name IN ('products', 'purchase_orders', 'product_purchase_orders')
	`
)
