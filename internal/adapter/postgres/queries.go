package postgres

// queryResolveSchema has one %s placeholder for the schema filter clause.
// $1 is always table_name; filter params start at $2.
const queryResolveSchema = `
	SELECT n.nspname
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relname = $1
		AND c.relkind IN ('r', 'v', 'm', 'p')
		AND %s
	ORDER BY n.nspname
	LIMIT 1`

// queryRowEstimate reads the planner's live-tuple estimate.
const queryRowEstimate = `
	SELECT COALESCE(s.n_live_tup, c.reltuples::bigint, 0)
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	LEFT JOIN pg_stat_user_tables s
		ON s.schemaname = n.nspname AND s.relname = c.relname
	WHERE n.nspname = $1 AND c.relname = $2`

// queryColumns lists columns in ordinal order with type and length info.
const queryColumns = `
	SELECT
		c.column_name,
		c.data_type,
		COALESCE(c.character_maximum_length, 0)
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

// queryPrimaryKeyColumns lists the table's primary-key columns in key order.
const queryPrimaryKeyColumns = `
	SELECT a.attname
	FROM pg_index i
	JOIN pg_class c ON c.oid = i.indrelid
	JOIN pg_namespace n ON n.oid = c.relnamespace
	JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = ANY(i.indkey)
	WHERE n.nspname = $1 AND c.relname = $2 AND i.indisprimary
	ORDER BY array_position(i.indkey, a.attnum)`

// queryColumnStats reads per-column statistics from pg_stats.
const queryColumnStats = `
	SELECT
		s.attname,
		s.null_frac,
		s.n_distinct,
		s.most_common_vals::text
	FROM pg_stats s
	WHERE s.schemaname = $1 AND s.tablename = $2`
