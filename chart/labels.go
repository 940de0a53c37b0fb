package chart

// Labels holds the visible texts of the figures.
type Labels struct {
	LineTitle    string
	WeekAxis     string
	InterestAxis string
	Legend       string

	DecompositionTitle string
	Observed           string
	Trend              string
	Seasonal           string
	Residual           string

	ACFTitle  string
	PACFTitle string
	LagAxis   string
}

// DefaultLabels returns the Russian labels used for Google Trends exports
// of the Russia region.
func DefaultLabels() Labels {
	return Labels{
		LineTitle:    "Интерес к запросу в России (Google Trends)",
		WeekAxis:     "Неделя",
		InterestAxis: "Популярность",
		Legend:       "Interest over time",

		DecompositionTitle: "Декомпозиция временного ряда",
		Observed:           "Interest",
		Trend:              "Trend",
		Seasonal:           "Seasonal",
		Residual:           "Resid",

		ACFTitle:  "ACF: Автокорреляционная функция",
		PACFTitle: "PACF: Частичная автокорреляционная функция",
		LagAxis:   "Lag",
	}
}
