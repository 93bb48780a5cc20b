package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/listview"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr error
	}{
		{name: "valid default", params: *NewPaginationParams()},
		{name: "valid page mode", params: PaginationParams{Page: 2, PageSize: 10}},
		{name: "zero page", params: PaginationParams{Page: 0}, wantErr: ErrInvalidPage},
		{name: "negative page size", params: PaginationParams{Page: 1, PageSize: -1}, wantErr: ErrInvalidPageSize},
		{name: "bad sort order", params: PaginationParams{Page: 1, Sort: "title:up"}, wantErr: ErrInvalidSortOrder},
		{name: "filter without equals", params: PaginationParams{Page: 1, Filters: []string{"status"}}, wantErr: ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    listview.SortSpec
		wantErr error
	}{
		{in: "", want: listview.SortSpec{}},
		{in: "title", want: listview.SortSpec{Field: "title"}},
		{in: "dueDate:desc", want: listview.SortSpec{Field: "dueDate", Direction: listview.Descending}},
		{in: " dueDate : DESC ", want: listview.SortSpec{Field: "dueDate", Direction: listview.Descending}},
		{in: "a:b:c", wantErr: ErrInvalidSortFormat},
		{in: ":desc", wantErr: ErrEmptySortField},
		{in: "title:sideways", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSort(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter(t *testing.T) {
	field, value, err := ParseFilter("title = a=b ")
	require.NoError(t, err)
	assert.Equal(t, "title", field)
	assert.Equal(t, "a=b", value)

	field, value, err = ParseFilter("title=")
	require.NoError(t, err)
	assert.Equal(t, "title", field)
	assert.Empty(t, value)

	_, _, err = ParseFilter("=x")
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func newState(t *testing.T) *listview.State {
	t.Helper()
	s, err := listview.NewState(listview.Options{
		Filters: []listview.FilterField{
			{Name: "title", Kind: listview.MatchSubstring},
			{Name: "status", Kind: listview.MatchEqual, Choices: []string{"OPEN", "DONE"}},
		},
		Sorts:       []listview.SortField{{Name: "title"}, {Name: "id", Compare: listview.Numeric}},
		DefaultSort: listview.SortSpec{Field: "title"},
		PageSize:    2,
	})
	require.NoError(t, err)
	return s
}

func load(s *listview.State, n int) {
	records := make([]listview.Record, n)
	for i := range n {
		status := "OPEN"
		if i%2 == 1 {
			status = "DONE"
		}
		records[i] = listview.Record{"id": i + 1, "title": fmt.Sprintf("item %02d", i+1), "status": status}
	}
	s.OnDataLoaded(s.BeginFetch(), records)
}

func TestApplyAndSelectPage(t *testing.T) {
	s := newState(t)
	p := PaginationParams{
		Page:     3,
		PageSize: 3,
		Sort:     "id:desc",
		Filters:  []string{"status=open"},
	}
	require.NoError(t, p.Apply(s))
	load(s, 10)
	p.SelectPage(s)

	view := s.View()
	assert.Equal(t, 5, view.TotalFiltered)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, 2, view.CurrentPage, "page clamps to the last page")
	assert.Equal(t, "OPEN", s.Filter().Value("status"))

	meta := NewPaginationMeta(view)
	assert.Equal(t, PaginationMeta{
		CurrentPage: 2,
		PageSize:    3,
		TotalPages:  2,
		TotalItems:  5,
		HasPrevious: true,
	}, meta)
}

func TestApply_RejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name   string
		params PaginationParams
	}{
		{name: "unknown filter", params: PaginationParams{Page: 1, Filters: []string{"owner=me"}}},
		{name: "unknown sort", params: PaginationParams{Page: 1, Sort: "owner"}},
		{name: "bad enum value", params: PaginationParams{Page: 1, Filters: []string{"status=LATE"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.params.Apply(newState(t)), listview.ErrConfiguration)
		})
	}
}
