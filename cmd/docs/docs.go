// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/cancha_backend/main.go -o cmd/docs
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
        "/health": {
            "get": {
                "description": "Reports whether the server and its database are reachable.",
                "produces": ["application/json"],
                "tags": ["root"],
                "summary": "Show the status of server.",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/fields/{fieldId}/available-slots": {
            "get": {
                "description": "Generates the slots of the field's weekday template (or the default grid) minus booked and standing intervals",
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "List free slots of a field on a date",
                "parameters": [
                    {"type": "string", "description": "Field ID", "name": "fieldId", "in": "path", "required": true},
                    {"type": "string", "description": "Date (YYYY-MM-DD)", "name": "date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Field or template not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/fields/{fieldId}/reserve-slot": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Books the interval atomically. Overlapping a blocking reservation fails with 409.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reservations"],
                "summary": "Reserve an interval of a field",
                "parameters": [
                    {"type": "string", "description": "Field ID", "name": "fieldId", "in": "path", "required": true},
                    {"description": "Reservation", "name": "reservation", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReserveSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.Envelope"}},
                    "409": {"description": "Ya existe una reserva en ese horario", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "meta": {}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "dto.ReserveSlotRequest": {
            "type": "object",
            "required": ["calendar_date", "start_time", "end_time"],
            "properties": {
                "calendar_date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "user_id": {"type": "string"},
                "calendar_transaction": {"type": "string"},
                "payment_amount": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cancha Booking API",
	Description:      "Sports-field booking backend: slots, reservations, receipts and cash closings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
