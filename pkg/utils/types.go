package utils

// Date layouts accepted for scraped dates, tried in order. Scraped dates carry no year.
var DateLayouts = []string{
	"January 2, Monday",
	"Jan 2",
	"January 2",
	"Jan 2, Mon",
}

// Constants
const (
	TIME_LAYOUT     = "15:04"
	ISO_DATE_LAYOUT = "2006-01-02"
)

// Date layouts accepted in the Date column of the flights sheet
var SheetDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
}
