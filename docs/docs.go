// Package docs contiene la spec OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/dogs": {
            "get": {"tags": ["clients"], "summary": "Listar perros", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["clients"], "summary": "Crear perro (y dueño por teléfono)", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/dogs/{dogID}/notes": {
            "get": {"tags": ["notes"], "summary": "Notas del perro", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["notes"], "summary": "Agregar nota a un perro", "responses": {"201": {"description": "Created"}}}
        },
        "/appointments": {
            "get": {"tags": ["appointments"], "summary": "Eventos del calendario", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["appointments"], "summary": "Reservar turno", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/appointments/{appointmentID}/checkout": {
            "get": {"tags": ["checkout"], "summary": "Resumen de pago", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["checkout"], "summary": "Registrar seña o pago", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/payments/{paymentID}": {
            "delete": {"tags": ["checkout"], "summary": "Eliminar pago", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/sales/daily": {
            "get": {"tags": ["checkout"], "summary": "Caja diaria", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Peluquería Canina API",
	Description:      "Turnos, clientes y caja de una peluquería canina.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
