// Package docs registers the Swagger document served at /swagger/*any.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
        "/api/v1/door/state": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Latest observation with the polling interval and time until the next probe. UNKNOWN before the first cycle.",
                "produces": ["application/json"],
                "tags": ["door"],
                "summary": "Get door state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DoorStatus"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Poll cycles filtered by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and door state. A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List observations",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["OPEN", "CLOSED", "UNKNOWN"], "type": "string", "description": "Door state", "name": "state", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, observations", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs/{id}/notifications": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Delivery attempts made during one poll cycle.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List notification attempts",
                "parameters": [
                    {"type": "string", "description": "Observation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "count, notifications", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Sends the current status on connect, then one frame per newly recorded poll cycle. ?check_every (e.g. 2s) sets how often the journal is checked.",
                "tags": ["door"],
                "summary": "Door state stream",
                "parameters": [
                    {"type": "string", "example": "5s", "description": "Journal check period, 50ms..1m", "name": "check_every", "in": "query"}
                ],
                "responses": {}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "service.DoorStatus": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "observed_at": {"type": "string"},
                "state": {"type": "string", "enum": ["OPEN", "CLOSED", "UNKNOWN"]},
                "hour": {"type": "integer"},
                "minute": {"type": "integer"},
                "in_window": {"type": "boolean"},
                "notified": {"type": "integer"},
                "failed": {"type": "integer"},
                "error": {"type": "string"},
                "interval": {"type": "string"},
                "next_poll_in": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Garage Monitor API",
	Description:      "Door state and notification journal of the garage door monitor.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
