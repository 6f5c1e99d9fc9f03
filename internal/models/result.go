package models

// Result табличный результат запроса: имена колонок и строки в порядке выдачи СУБД.
type Result struct {
	Title   string
	Columns []string
	Rows    [][]any
}

// Empty сообщает, что запрос не вернул строк.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}
