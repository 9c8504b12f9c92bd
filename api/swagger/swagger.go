package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "User Table API",
        "description": "Server-side state for the user administration table",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "tags": [
        {"name": "Tables", "description": "Table sessions, filtering, sorting and paging"},
        {"name": "Selection", "description": "Row selection"},
        {"name": "Users", "description": "Status changes and deletion"},
        {"name": "Edit", "description": "Inline edit"},
        {"name": "Add", "description": "Add-user dialog"},
        {"name": "Details", "description": "User details modal"},
        {"name": "Export", "description": "CSV and PDF downloads"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}}}},
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/tables": {
            "post": {
                "tags": ["Tables"],
                "summary": "Open a table session and load users",
                "description": "On load failure the response is 502 and meta.table_id still names the session.",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Load failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/tables/{id}": {
            "get": {
                "tags": ["Tables"],
                "summary": "Render the table view",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "delete": {
                "tags": ["Tables"],
                "summary": "Close the session",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {"204": {"description": "Closed"}, "404": {"description": "Session not found"}}
            }
        },
        "/api/v1/tables/{id}/reload": {
            "post": {
                "tags": ["Tables"],
                "summary": "Reload users",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "502": {
                        "description": "Remote API call failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/filter": {
            "put": {
                "tags": ["Tables"],
                "summary": "Replace the filter",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/FilterRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Tables"],
                "summary": "Clear every filter",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/filter/dates": {
            "delete": {
                "tags": ["Tables"],
                "summary": "Clear the date range",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/sort": {
            "post": {
                "tags": ["Tables"],
                "summary": "Sort by column",
                "description": "Repeating the active column flips the direction; a new column starts ascending.",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SortRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/tables/{id}/page": {
            "post": {
                "tags": ["Tables"],
                "summary": "Go to page",
                "description": "Out-of-range pages are ignored. meta.scroll_to_top reports whether the page changed.",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/PageRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/page-size": {
            "put": {
                "tags": ["Tables"],
                "summary": "Change rows per page",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/PageSizeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/tables/{id}/selection/toggle": {
            "post": {
                "tags": ["Selection"],
                "summary": "Toggle one row",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SelectRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/tables/{id}/selection/toggle-all": {
            "post": {
                "tags": ["Selection"],
                "summary": "Toggle every row of the visible page",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/selection": {
            "delete": {
                "tags": ["Selection"],
                "summary": "Clear the selection",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/users/delete-selected": {
            "post": {
                "tags": ["Users"],
                "summary": "Delete selected users",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "502": {
                        "description": "Remote API call failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/users/{userID}/toggle-status": {
            "post": {
                "tags": ["Users"],
                "summary": "Toggle active/inactive",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {"name": "userID", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "502": {
                        "description": "Remote API call failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/users/{userID}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Delete a user",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {"name": "userID", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "502": {
                        "description": "Remote API call failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/edit/{userID}": {
            "post": {
                "tags": ["Edit"],
                "summary": "Start inline edit",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {"name": "userID", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/edit": {
            "patch": {
                "tags": ["Edit"],
                "summary": "Change edit fields",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/EditChangeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Edit"],
                "summary": "Cancel the edit",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/edit/save": {
            "post": {
                "tags": ["Edit"],
                "summary": "Save the edit",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {
                        "description": "Remote API call failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/add": {
            "post": {
                "tags": ["Add"],
                "summary": "Open the add-user dialog",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "patch": {
                "tags": ["Add"],
                "summary": "Change draft fields",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AddChangeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Add"],
                "summary": "Close the dialog",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/add/submit": {
            "post": {
                "tags": ["Add"],
                "summary": "Create the drafted user",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {
                        "description": "Remote API call failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/details/{userID}": {
            "post": {
                "tags": ["Details"],
                "summary": "Show user details",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {"name": "userID", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/details": {
            "delete": {
                "tags": ["Details"],
                "summary": "Hide user details",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {
                        "description": "Session or user not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/api/v1/tables/{id}/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download users as CSV or PDF",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Table session id"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": ["csv", "pdf"],
                        "default": "csv"
                    },
                    {
                        "name": "scope",
                        "in": "query",
                        "type": "string",
                        "enum": ["all", "page", "selected"],
                        "default": "all"
                    }
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Invalid query"},
                    "404": {"description": "Session not found"}
                },
                "produces": ["text/csv", "application/pdf"]
            }
        }
    },
    "definitions": {
        "FilterRequest": {
            "type": "object",
            "properties": {
                "search": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user", "moderator"]},
                "status": {"type": "string", "enum": ["active", "inactive"]},
                "date_from": {"type": "string", "format": "date"},
                "date_to": {"type": "string", "format": "date"}
            }
        },
        "SortRequest": {
            "type": "object",
            "required": ["column"],
            "properties": {
                "column": {"type": "string", "enum": ["id", "name", "email", "registrationDate", "lastActivity"]}
            }
        },
        "PageRequest": {"type": "object", "properties": {"page": {"type": "integer"}}},
        "PageSizeRequest": {
            "type": "object",
            "required": ["page_size"],
            "properties": {"page_size": {"type": "integer", "minimum": 1, "maximum": 500}}
        },
        "SelectRequest": {"type": "object", "required": ["id"], "properties": {"id": {"type": "integer"}}},
        "EditChangeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user", "moderator"]}
            }
        },
        "AddChangeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user", "moderator"]},
                "send_welcome_email": {"type": "boolean"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user", "moderator"]},
                "status": {"type": "string", "enum": ["active", "inactive"]},
                "registration_date": {"type": "string", "format": "date-time"},
                "last_activity": {"type": "string", "format": "date-time"},
                "avatar": {"type": "string"},
                "login_count": {"type": "integer"},
                "posts_count": {"type": "integer"},
                "comments_count": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "start": {"type": "integer"},
                "end": {"type": "integer"}
            }
        },
        "TableView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "loading": {"type": "boolean"},
                "error": {"type": "string"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/User"}},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "visible_pages": {"type": "array", "items": {"description": "page number or \"…\""}},
                "filter": {"$ref": "#/definitions/FilterRequest"},
                "sort": {
                    "type": "object",
                    "properties": {"column": {"type": "string"}, "direction": {"type": "string", "enum": ["asc", "desc"]}}
                },
                "selected": {"type": "array", "items": {"type": "integer"}},
                "all_selected": {"type": "boolean"},
                "edit": {"type": "object"},
                "add": {"type": "object"},
                "details": {"$ref": "#/definitions/User"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
