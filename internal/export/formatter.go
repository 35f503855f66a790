package export

import (
	"fmt"
	"strings"
	"time"
)

// Formatter 把列的原始值转成写入单元格的值
type Formatter func(v any) any

// RawFormatter 原样写入，由 excelize 决定单元格类型
func RawFormatter(v any) any {
	return v
}

type locale struct {
	yes, no string
	layout  string
	// 英文表头 -> 本地表头，缺省保留原文
	headers map[string]string
}

var locales = map[string]locale{
	"ru": {
		yes: "Да", no: "Нет", layout: "02.01.2006 15:04",
		headers: map[string]string{
			"Email address": "Адрес электронной почты",
			"Username":      "Имя пользователя",
			"Staff status":  "Статус персонала",
			"Active":        "Активный",
			"Date joined":   "Дата регистрации",
			"Title":         "Название",
			"Location":      "Локация",
			"Starts at":     "Начало",
			"Ends at":       "Окончание",
			"Created at":    "Создано",
			"User":          "Пользователь",
			"Event":         "Мероприятие",
			"Status":        "Статус",
		},
	},
	"en": {yes: "Yes", no: "No", layout: "2006-01-02 15:04"},
}

// lookupLocale "ru-RU" 取 "ru"，未知语言回退到 en
func lookupLocale(lang string) locale {
	l, ok := locales[strings.ToLower(strings.SplitN(lang, "-", 2)[0])]
	if !ok {
		return locales["en"]
	}
	return l
}

func (l locale) header(h string) string {
	if v, ok := l.headers[h]; ok {
		return v
	}
	return h
}

// localizeHeaders 按语言改写目录里的表头
func localizeHeaders(catalog []Table, lang string) []Table {
	l := lookupLocale(lang)
	for i := range catalog {
		for j := range catalog[i].Columns {
			catalog[i].Columns[j].Header = l.header(catalog[i].Columns[j].Header)
		}
	}
	return catalog
}

// AdminFormatter 本地化显示：布尔为是/否，时间按本地格式和时区，
// 关联对象取 String()，列表用 ", " 连接，nil 为空串
func AdminFormatter(lang string, loc *time.Location) Formatter {
	l := lookupLocale(lang)
	if loc == nil {
		loc = time.UTC
	}

	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(loc).Format(l.layout)
	}

	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return ""
		case bool:
			if x {
				return l.yes
			}
			return l.no
		case time.Time:
			return formatTime(x)
		case *time.Time:
			if x == nil {
				return ""
			}
			return formatTime(*x)
		case fmt.Stringer:
			return x.String()
		case []string:
			return strings.Join(x, ", ")
		}
		return v
	}
}
