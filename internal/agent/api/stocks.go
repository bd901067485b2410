// Методы клиента для чтения котировок.
package api

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Symbol — элемент ответа /stocks/symbols.
type Symbol struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Industry string `json:"industry"`
}

// Quote — одна запись котировки.
type Quote struct {
	Timestamp time.Time       `json:"timestamp"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Industry  string          `json:"industry"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volumes   int64           `json:"volumes"`
}

// Symbols возвращает список бумаг; пустой industry — без фильтра.
func (c *Client) Symbols(industry string) ([]Symbol, error) {
	path := "/stocks/symbols"
	if industry != "" {
		path += "?" + url.Values{"industry": {industry}}.Encode()
	}

	var resp []Symbol
	err := c.GetJSON(path, &resp, "")
	return resp, err
}

// Latest возвращает последнюю запись по тикеру (публичный маршрут).
func (c *Client) Latest(symbol string) (Quote, error) {
	var resp Quote
	err := c.GetJSON("/stocks/"+url.PathEscape(symbol), &resp, "")
	return resp, err
}

// Authed запрашивает закрытый маршрут.
//
// Без from и to сервер отдаёт одну запись, она возвращается срезом из одного элемента.
func (c *Client) Authed(symbol, from, to, token string) ([]Quote, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}

	path := "/stocks/authed/" + url.PathEscape(symbol)
	if len(q) == 0 {
		var one Quote
		if err := c.GetJSON(path, &one, token); err != nil {
			return nil, err
		}
		return []Quote{one}, nil
	}

	var resp []Quote
	err := c.GetJSON(path+"?"+q.Encode(), &resp, token)
	return resp, err
}
