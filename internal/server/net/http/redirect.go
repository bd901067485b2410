package http

import (
	"net"
	"net/http"
	"strconv"
)

// NewRedirectHandler отвечает на любой запрос 301 на тот же адрес по HTTPS.
//
// httpsPort дописывается к хосту, если он не 443.
func NewRedirectHandler(httpsPort int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if httpsPort != 0 && httpsPort != 443 {
			host = net.JoinHostPort(host, strconv.Itoa(httpsPort))
		}
		http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusMovedPermanently)
	})
}
