// Package api holds the OpenAPI document served at /api/docs. It follows the
// swag annotations on the handlers and is kept in step with them by hand.
package api

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
        "/api/v1/backup/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Backup"],
                "summary": "Get backup schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BackupScheduleResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Backup"],
                "summary": "Save backup schedule",
                "parameters": [
                    {"description": "Schedule", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BackupScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BackupScheduleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/backup/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Backup"],
                "summary": "List backup runs",
                "parameters": [
                    {"type": "integer", "description": "Page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "string", "description": "started_at, status or size_bytes", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BackupHistoryResponse"}}
                }
            }
        },
        "/api/v1/backup/history/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Backup"],
                "summary": "Get a backup run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BackupRun"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "tags": ["Backup"],
                "summary": "Delete a backup run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/backup/history/{id}/download": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Backup"],
                "summary": "Download a backup workbook",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "410": {"description": "Gone", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/backup/run": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Backup"],
                "summary": "Run a backup now",
                "parameters": [
                    {"description": "Run request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BackupRunRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.BackupRun"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.SessionUser"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.SessionUser"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Checks the database and the disk holding the backup folder",
                "produces": ["application/json"],
                "tags": ["Monitoring"],
                "summary": "Server health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/db": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Monitoring"],
                "summary": "Database health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "description": "Returns metrics in Prometheus exposition format for scraping",
                "produces": ["text/plain"],
                "tags": ["Monitoring"],
                "summary": "Prometheus metrics endpoint",
                "responses": {
                    "200": {"description": "Prometheus metrics", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "auth.SessionUser": {
            "type": "object",
            "properties": {
                "authenticated_at": {"type": "string"},
                "employee_id": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.BackupHistoryResponse": {
            "type": "object",
            "properties": {
                "runs": {"type": "array", "items": {"$ref": "#/definitions/models.BackupRun"}},
                "total": {"type": "integer"}
            }
        },
        "handlers.BackupRunRequest": {
            "type": "object",
            "properties": {
                "folder": {"type": "string"},
                "kinds": {"description": "Array of kind tags, or one comma-separated string", "type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.BackupScheduleRequest": {
            "type": "object",
            "properties": {
                "backup_folder": {"type": "string"},
                "backup_time": {"type": "string"},
                "backup_types": {"description": "Array of kind tags, or one comma-separated string", "type": "array", "items": {"type": "string"}},
                "interval_days": {"type": "integer"},
                "start_date": {"type": "string"},
                "version": {"type": "integer"}
            }
        },
        "handlers.BackupScheduleResponse": {
            "type": "object",
            "properties": {
                "next_run": {"type": "string"},
                "schedule": {"$ref": "#/definitions/models.BackupSchedule"}
            }
        },
        "handlers.HealthCheckResult": {
            "type": "object",
            "properties": {
                "details": {"type": "object", "additionalProperties": true},
                "duration": {"type": "string"},
                "error": {"type": "string"},
                "status": {"type": "string", "enum": ["healthy", "unhealthy"]}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handlers.HealthCheckResult"}},
                "error": {"type": "string"},
                "status": {"type": "string", "enum": ["healthy", "unhealthy"]}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["login", "password"],
            "properties": {
                "login": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.BackupRun": {
            "type": "object",
            "properties": {
                "completed_at": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "error_message": {"type": "string"},
                "file_path": {"type": "string"},
                "folder": {"type": "string"},
                "id": {"type": "string"},
                "kinds": {"type": "array", "items": {"type": "string"}},
                "remote_uri": {"type": "string"},
                "row_count": {"type": "integer"},
                "sheet_count": {"type": "integer"},
                "size_bytes": {"type": "integer"},
                "started_at": {"type": "string"},
                "status": {"type": "string"},
                "trigger": {"type": "string"},
                "triggered_by": {"type": "string"},
                "warnings": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.BackupSchedule": {
            "type": "object",
            "properties": {
                "backup_folder": {"type": "string"},
                "backup_time": {"type": "string"},
                "backup_types": {"type": "array", "items": {"type": "string"}},
                "interval_days": {"type": "integer"},
                "start_date": {"type": "string"},
                "updated_at": {"type": "string"},
                "version": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo is registered with swag and served by gin-swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cor1 Maintenance API",
	Description:      "Maintenance reporting with scheduled spreadsheet backups.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
