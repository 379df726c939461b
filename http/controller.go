// Package http supplies the http surface of the visit counter.
package http

import (
	"fmt"
	"net/http"
	"reflect"
	"unicode"
)

// Controller defines a group of http handlers under one path prefix
type Controller interface {
	// GetName the controller name
	GetName() string
	// GetPath the path prefix,must end with '/'
	GetPath() string
	// GetHandlers returns all the handlers,keyed by path
	GetHandlers() (map[string]http.HandlerFunc, error)
}

// BaseController is the base controller
type BaseController struct {
	Name string
	Path string
}

// GetName the controller name
func (p *BaseController) GetName() string {
	return p.Name
}

// GetPath the path prefix
func (p *BaseController) GetPath() string {
	return p.Path
}

var (
	m http.HandlerFunc
	t = reflect.TypeOf(m)
)

// ReflectHandlers finds the exported http.HandlerFunc methods of the
// controller and maps camel names to underline paths,
// e.g. Visit -> visit,ReadCount -> read_count
func ReflectHandlers(controller Controller) (handlers map[string]http.HandlerFunc, err error) {
	val := reflect.ValueOf(controller)
	if !val.IsValid() || val.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("controller must be a valid pointer")
	}

	handlers = map[string]http.HandlerFunc{}
	methodCount := val.NumMethod()
	controllerType := val.Type()
	for i := 0; i < methodCount; i++ {
		methodVal := val.Method(i)
		methodValType := methodVal.Type()

		method := controllerType.Method(i)
		if methodValType.AssignableTo(t) {
			handlers[ToUnderlineName(method.Name)] = methodVal.Interface().(func(http.ResponseWriter, *http.Request))
		}
	}
	return handlers, nil
}

// ToUnderlineName converts a camel name to a lower underline name
func ToUnderlineName(camelName string) string {
	nameRune := []rune(camelName)
	normalizeName := make([]rune, 0, len(nameRune))

	for ni := 0; ni < len(nameRune); ni++ {
		if ni != 0 && unicode.IsUpper(nameRune[ni]) && unicode.IsLower(nameRune[ni-1]) {
			normalizeName = append(normalizeName, '_')
		}

		r := nameRune[ni]
		if unicode.IsUpper(nameRune[ni]) {
			r = unicode.ToLower(r)
		}
		normalizeName = append(normalizeName, r)
	}
	return string(normalizeName)
}
