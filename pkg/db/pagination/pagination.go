// Package pagination implements keyset paging over snowflake primary keys.
// The page token is simply the last ID of the previous page.
package pagination

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	}
	return p.PageSize
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	PageSize      int    `json:"page_size"`
}
