package export

// Sheet is a named table of mapped rows sharing one header.
type Sheet struct {
	Name   string
	Header []string
	Rows   []MappedRow
}

// BuildSheet maps every record into a sheet named name. It reports false
// and produces no sheet when records is empty.
func BuildSheet[T any](name string, records []T, mapper *Mapper[T]) (*Sheet, bool) {
	if len(records) == 0 {
		return nil, false
	}

	rows := make([]MappedRow, len(records))
	for i, rec := range records {
		rows[i] = mapper.Map(rec)
	}

	return &Sheet{
		Name:   name,
		Header: rows[0].Columns(),
		Rows:   rows,
	}, true
}
