package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sport Planner API",
        "description": "Day agenda aggregation and fair call order for extra sport moments",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Groups", "description": "Living group catalog"},
        {"name": "Agenda", "description": "Day agenda and checklist"},
        {"name": "Sessions", "description": "Custom sport sessions"},
        {"name": "CallOrder", "description": "Fair call order for extra sport moments"}
    ],
    "paths": {
        "/groups": {
            "get": {
                "tags": ["Groups"],
                "summary": "List living groups",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/agenda": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Day agenda",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date", "description": "Defaults to today in the facility time zone"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Group catalog unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/agenda/{date}/items/{itemId}/status": {
            "put": {
                "tags": ["Agenda"],
                "summary": "Set checklist status of an agenda item",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string", "format": "date"},
                    {"name": "itemId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetItemStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown item", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List sport sessions",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "groupId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Schedule a custom sport session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/call-order": {
            "get": {
                "tags": ["CallOrder"],
                "summary": "Call order for extra sport moments",
                "parameters": [
                    {"name": "window", "in": "query", "type": "string", "enum": ["ALL", "WEEK", "MONTH", "YEAR"], "default": "ALL"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/call-order/registrations": {
            "post": {
                "tags": ["CallOrder"],
                "summary": "Register an extra sport moment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterExtraMomentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/call-order/export": {
            "get": {
                "tags": ["CallOrder"],
                "summary": "Export the call order",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "window", "in": "query", "type": "string", "enum": ["ALL", "WEEK", "MONTH", "YEAR"], "default": "ALL"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered file", "schema": {"type": "file"}},
                    "400": {"description": "Invalid window or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SetItemStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["PENDING", "COMPLETED", "REFUSED"]}
            }
        },
        "CreateSessionRequest": {
            "type": "object",
            "required": ["groupId", "date", "type"],
            "properties": {
                "groupId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "startTime": {"type": "string", "example": "15:00"},
                "endTime": {"type": "string", "example": "16:00"},
                "location": {"type": "string"},
                "type": {"type": "string", "enum": ["REGULAR", "EXTRA", "INDICATION"]},
                "notes": {"type": "string"}
            }
        },
        "RegisterExtraMomentRequest": {
            "type": "object",
            "required": ["groupId"],
            "properties": {
                "groupId": {"type": "string"},
                "date": {"type": "string", "description": "YYYY-MM-DD or RFC3339, defaults to now"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
