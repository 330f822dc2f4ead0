package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutor Dashboard API",
        "description": "Lesson classification, filtering and claim service for the tutor scheduling dashboard",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Lessons", "description": "Lesson collection: listing, refresh, claim, export"},
        {"name": "Dashboard", "description": "Bucket view, month picker and filter selection"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List lessons filtered by type, today, or date range",
                "parameters": [
                    {"name": "filter", "in": "query", "type": "string", "enum": ["Today", "Historic", "Upcoming", "Available"]},
                    {"name": "start", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "end", "in": "query", "type": "string", "format": "date-time"}
                ],
                "responses": {
                    "200": {"description": "Filtered lesson list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown filter or bad range"}
                }
            }
        },
        "/api/v1/lessons/refresh": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Replace the collection from the lesson service",
                "responses": {
                    "200": {"description": "Store state after refresh"},
                    "502": {"description": "Lesson service failure"},
                    "504": {"description": "Lesson service timeout"}
                }
            }
        },
        "/api/v1/lessons/{id}/claim": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Claim an available lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Merged lesson after claim"},
                    "409": {"description": "Not found, not available, or claim in flight"}
                }
            }
        },
        "/api/v1/lessons/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Export the filtered lesson list",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "filter", "in": "query", "type": "string"},
                    {"name": "start", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "end", "in": "query", "type": "string", "format": "date-time"}
                ],
                "responses": {
                    "200": {"description": "Document bytes"}
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Today/Available/Upcoming/Historic buckets honoring the active filter",
                "responses": {
                    "200": {"description": "Bucket payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/months": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "12-slot month picker window with availability flags",
                "responses": {
                    "200": {"description": "Window slots"}
                }
            }
        },
        "/api/v1/dashboard/filter": {
            "put": {
                "tags": ["Dashboard"],
                "summary": "Select a month slot or an explicit date range",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FilterUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Active selection"},
                    "400": {"description": "Both or neither filter kinds supplied"}
                }
            },
            "delete": {
                "tags": ["Dashboard"],
                "summary": "Clear the filter selection",
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        }
    },
    "definitions": {
        "FilterUpdateRequest": {
            "type": "object",
            "properties": {
                "monthIndex": {"type": "integer", "minimum": 0, "maximum": 11},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"}
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
