//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

// Core analytics over the cleaned star schema. Top-N queries carry an
// explicit secondary sort on the identifier so rankings are total and
// reproducible across runs.

func init() {
	Register(&queryReport{
		name:        "total_revenue",
		description: "Total revenue across all cleaned order items",
		source:      SourceStar,
		sql: `
        SELECT SUM(quantity * unit_price)::double precision AS total_revenue
        FROM order_items`,
	})

	Register(&queryReport{
		name:        "revenue_by_country",
		description: "Revenue per customer country",
		source:      SourceStar,
		sql: `
        SELECT c.country,
               SUM(oi.quantity * oi.unit_price)::double precision AS revenue
        FROM order_items oi
        JOIN orders o ON o.order_id = oi.order_id
        JOIN customers c ON c.customer_id = o.customer_id
        GROUP BY c.country
        ORDER BY revenue DESC, c.country`,
	})

	Register(&queryReport{
		name:        "top_products",
		description: "Five highest-revenue products",
		source:      SourceStar,
		sql: `
        SELECT p.product_id, p.product_name,
               SUM(oi.quantity * oi.unit_price)::double precision AS revenue
        FROM order_items oi
        JOIN products p ON p.product_id = oi.product_id
        GROUP BY p.product_id, p.product_name
        ORDER BY revenue DESC, p.product_id
        LIMIT 5`,
	})

	Register(&queryReport{
		name:        "top_customers",
		description: "Five highest-revenue customers",
		source:      SourceStar,
		sql: `
        SELECT c.customer_id, c.country,
               SUM(oi.quantity * oi.unit_price)::double precision AS revenue
        FROM order_items oi
        JOIN orders o ON o.order_id = oi.order_id
        JOIN customers c ON c.customer_id = o.customer_id
        GROUP BY c.customer_id, c.country
        ORDER BY revenue DESC, c.customer_id
        LIMIT 5`,
	})

	Register(&queryReport{
		name:        "segment_summary",
		description: "Customer count and revenue per RFM segment",
		source:      SourceStar,
		sql: `
        SELECT s.segment,
               COUNT(*) AS customers,
               SUM(r.monetary)::double precision AS revenue
        FROM customer_segments s
        JOIN customer_rfm r ON r.customer_id = s.customer_id
        GROUP BY s.segment
        ORDER BY revenue DESC, s.segment`,
	})
}
