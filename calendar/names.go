package calendar

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Indexed by time.Weekday, Sunday first.
var dayNames = [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// MonthName returns the display name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// DayName returns the short display name of wd.
func DayName(wd time.Weekday) string { return dayNames[wd] }

// FormatDisplay renders a date for humans: "Lun, 17/03/2025".
func FormatDisplay(d Date) string {
	return fmt.Sprintf("%s, %02d/%02d/%04d", DayName(d.Weekday()), d.Day, int(d.Month), d.Year)
}
