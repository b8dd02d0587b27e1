//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

// Window-function analytics over the raw staging rows. These read
// staging_transactions directly rather than the cleaned schema, so their
// revenue figures can differ slightly from the star-schema reports.

func init() {
	Register(&queryReport{
		name:        "cumulative_revenue",
		description: "Daily revenue with a running total",
		source:      SourceStaging,
		sql: `
        WITH daily AS (
            SELECT invoice_date::date AS day,
                   SUM(quantity * unit_price)::double precision AS revenue
            FROM staging_transactions
            GROUP BY invoice_date::date
        )
        SELECT day, revenue,
               SUM(revenue) OVER (ORDER BY day) AS running_revenue
        FROM daily
        ORDER BY day`,
	})

	Register(&queryReport{
		name:        "cohort_retention",
		description: "Active customers per first-purchase cohort and month",
		source:      SourceStaging,
		sql: `
        WITH first_purchase AS (
            SELECT customer_id,
                   DATE_TRUNC('month', MIN(invoice_date))::date AS cohort_month
            FROM staging_transactions
            WHERE customer_id IS NOT NULL
            GROUP BY customer_id
        )
        SELECT fp.cohort_month,
               DATE_TRUNC('month', st.invoice_date)::date AS order_month,
               COUNT(DISTINCT st.customer_id) AS active_customers
        FROM staging_transactions st
        JOIN first_purchase fp ON fp.customer_id = st.customer_id
        GROUP BY fp.cohort_month, DATE_TRUNC('month', st.invoice_date)::date
        ORDER BY fp.cohort_month, order_month`,
	})

	Register(&queryReport{
		name:        "monthly_top_products",
		description: "Five highest-revenue products per month",
		source:      SourceStaging,
		sql: `
        WITH monthly AS (
            SELECT DATE_TRUNC('month', invoice_date)::date AS month,
                   stock_code,
                   SUM(quantity * unit_price)::double precision AS revenue
            FROM staging_transactions
            GROUP BY DATE_TRUNC('month', invoice_date)::date, stock_code
        ),
        ranked AS (
            SELECT month, stock_code, revenue,
                   ROW_NUMBER() OVER (
                       PARTITION BY month
                       ORDER BY revenue DESC, stock_code
                   ) AS rank
            FROM monthly
        )
        SELECT month, rank, stock_code, revenue
        FROM ranked
        WHERE rank <= 5
        ORDER BY month, rank`,
	})

	// Customers whose returns outweigh their purchases net out at or
	// below zero; they would sort last and push the running sum past the
	// total, breaking the share curve. The concentration analysis only
	// ranks customers with positive net revenue.
	Register(&queryReport{
		name:        "pareto",
		description: "Cumulative revenue concentration across positive-revenue customers",
		source:      SourceStaging,
		sql: `
        WITH customer_revenue AS (
            SELECT customer_id,
                   SUM(quantity * unit_price)::double precision AS revenue
            FROM staging_transactions
            WHERE customer_id IS NOT NULL
            GROUP BY customer_id
            HAVING SUM(quantity * unit_price) > 0
        )
        SELECT customer_id, revenue,
               SUM(revenue) OVER (ORDER BY revenue DESC, customer_id)
                   AS running_revenue,
               ROUND((SUM(revenue) OVER (ORDER BY revenue DESC, customer_id) /
                      SUM(revenue) OVER ())::numeric, 4)::double precision
                   AS revenue_share
        FROM customer_revenue
        ORDER BY revenue DESC, customer_id`,
	})
}
