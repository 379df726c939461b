package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Resp is the json http response envelope
type Resp struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Msg     string      `json:"msg,omitempty"`
}

var (
	errNoparam = fmt.Errorf("missing param")
	jsonAPI    = jsoniter.ConfigCompatibleWithStandardLibrary
)

// GetParameter returns the trimmed value of the parameter name
func GetParameter(r url.Values, name string) string {
	return strings.TrimSpace(r.Get(name))
}

// GetInt64Parameter returns the int64 value of the parameter name
func GetInt64Parameter(r url.Values, name string) (val int64, err error) {
	value := GetParameter(r, name)
	if value == "" {
		return 0, errNoparam
	}
	return strconv.ParseInt(value, 10, 64)
}

// RenderJSON renders jsonData as the response body
func RenderJSON(w http.ResponseWriter, jsonData interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	data, err := jsonAPI.Marshal(jsonData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

// RenderSuccess renders data in a success envelope
func RenderSuccess(w http.ResponseWriter, data interface{}) {
	RenderJSON(w, &Resp{Success: true, Data: data})
}

// RenderFail renders msg in a failure envelope
func RenderFail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	data, err := jsonAPI.Marshal(&Resp{Success: false, Msg: msg})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(data)
}
