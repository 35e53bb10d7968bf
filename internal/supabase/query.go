package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Query — построитель запроса к таблице PostgREST.
// Цепочка методов завершается вызовом Execute.
type Query struct {
	client  *Client
	table   string
	sel     string
	filters url.Values
	order   string
	limit   int
	offset  int
	single  bool
}

// From начинает запрос к указанной таблице.
func (c *Client) From(table string) *Query {
	return &Query{
		client:  c,
		table:   table,
		filters: url.Values{},
	}
}

// Select задаёт список колонок.
func (q *Query) Select(columns string) *Query {
	q.sel = columns
	return q
}

// Eq добавляет фильтр равенства по колонке.
func (q *Query) Eq(column string, value any) *Query {
	q.filters.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// Order задаёт сортировку по колонке.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.order = column + "." + dir
	return q
}

// Limit ограничивает число строк.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Offset задаёт смещение.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Single требует ровно одну строку; её отсутствие трактуется как ErrNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Execute выполняет запрос и декодирует ответ в dest.
func (q *Query) Execute(ctx context.Context, dest any) error {
	const op = "supabase.Query.Execute"

	params := url.Values{}
	if q.sel != "" {
		params.Set("select", q.sel)
	}
	for column, vals := range q.filters {
		for _, v := range vals {
			params.Add(column, v)
		}
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	if q.offset > 0 {
		params.Set("offset", strconv.Itoa(q.offset))
	}

	reqURL := fmt.Sprintf("%s/rest/v1/%s", q.client.baseURL, q.table)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	q.client.setHeaders(req)
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}

	status, body, err := q.client.do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case status == http.StatusNotFound || status == http.StatusNotAcceptable:
		// PostgREST отвечает 406 на single-запрос без строк
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w: status %d", op, ErrUnavailable, status)
	case status >= http.StatusBadRequest:
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
