// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Server is healthy", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/api/lists": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "List photo lists",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ListsResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Create a photo list",
                "parameters": [
                    {"description": "Optional label and photos", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.CreateListRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ListCreatedResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/active": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Get the active photo list",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "No active list", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "tags": ["lists"],
                "summary": "Select the active photo list",
                "parameters": [
                    {"description": "List id, or null", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SetActiveRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/from-collection/{collectionId}": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Create a list from a collection",
                "parameters": [
                    {"type": "integer", "description": "Collection ID", "name": "collectionId", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ListCreatedResponse"}},
                    "400": {"description": "Invalid collection id", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Backend error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/from-search": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Create a list from a search",
                "parameters": [
                    {"description": "Search criteria", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoadFromSearchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ListCreatedResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Backend error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Get a photo list",
                "parameters": [{"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Rename a photo list",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true},
                    {"description": "New label", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RenameListRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["lists"],
                "summary": "Delete a photo list",
                "parameters": [{"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/lists/{id}/photos": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Add photos to a list",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true},
                    {"description": "Photos to add", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.PhotosRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Replace the photos of a list",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true},
                    {"description": "New contents", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.PhotosRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Remove photos from a list",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true},
                    {"description": "Hothashes to remove", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RemovePhotosRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{id}/move": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "tags": ["lists"],
                "summary": "Move photos between lists",
                "parameters": [
                    {"type": "string", "description": "Source list ID", "name": "id", "in": "path", "required": true},
                    {"description": "Target and hothashes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TransferPhotosRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{id}/copy": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "tags": ["lists"],
                "summary": "Copy photos between lists",
                "parameters": [
                    {"type": "string", "description": "Source list ID", "name": "id", "in": "path", "required": true},
                    {"description": "Target and hothashes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TransferPhotosRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{id}/save-as-collection": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Save a list as a collection",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true},
                    {"description": "Collection name and description", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SaveAsCollectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SaveAsCollectionResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Backend error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{id}/refresh": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Refresh a list from its source",
                "parameters": [{"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Source cannot be refreshed", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Backend error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{id}/mark-unmodified": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Mark a list unmodified",
                "parameters": [{"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PhotoList"}},
                    "404": {"description": "List not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["lists"],
                "summary": "List change feed",
                "responses": {"101": {"description": "Switching protocols"}}
            }
        }
    },
    "definitions": {
        "models.Photo": {
            "type": "object",
            "required": ["hothash"],
            "properties": {
                "hothash": {"type": "string"},
                "primary_filename": {"type": "string"},
                "taken_at": {"type": "string"},
                "width": {"type": "integer"},
                "height": {"type": "integer"},
                "rating": {"type": "integer"}
            }
        },
        "models.PhotoList": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "label": {"type": "string"},
                "photos": {"type": "array", "items": {"$ref": "#/definitions/models.Photo"}},
                "totalCount": {"type": "integer"},
                "source": {"type": "object", "description": "Tagged by type: collection, search, saved-search, import-session or manual"},
                "modified": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "lastAccessedAt": {"type": "string"}
            }
        },
        "models.Collection": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "photo_count": {"type": "integer"}
            }
        },
        "models.SearchCriteria": {
            "type": "object",
            "properties": {
                "search_string": {"type": "string"},
                "tag_ids": {"type": "array", "items": {"type": "integer"}},
                "author_id": {"type": "integer"},
                "rating_min": {"type": "integer"},
                "rating_max": {"type": "integer"},
                "taken_after": {"type": "string"},
                "taken_before": {"type": "string"},
                "sort_by": {"type": "string"},
                "sort_order": {"type": "string"}
            }
        },
        "models.CreateListRequest": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "photos": {"type": "array", "items": {"$ref": "#/definitions/models.Photo"}}
            }
        },
        "models.RenameListRequest": {
            "type": "object",
            "required": ["label"],
            "properties": {"label": {"type": "string"}}
        },
        "models.SetActiveRequest": {
            "type": "object",
            "properties": {"id": {"type": "string"}}
        },
        "models.PhotosRequest": {
            "type": "object",
            "properties": {"photos": {"type": "array", "items": {"$ref": "#/definitions/models.Photo"}}}
        },
        "models.RemovePhotosRequest": {
            "type": "object",
            "properties": {"hothashes": {"type": "array", "items": {"type": "string"}}}
        },
        "models.TransferPhotosRequest": {
            "type": "object",
            "required": ["toId"],
            "properties": {
                "toId": {"type": "string"},
                "hothashes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.LoadFromSearchRequest": {
            "type": "object",
            "properties": {
                "criteria": {"$ref": "#/definitions/models.SearchCriteria"},
                "description": {"type": "string"}
            }
        },
        "models.SaveAsCollectionRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "models.ListCreatedResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}}
        },
        "models.ListsResponse": {
            "type": "object",
            "properties": {
                "lists": {"type": "array", "items": {"$ref": "#/definitions/models.PhotoList"}},
                "activeId": {"type": "string"},
                "capacity": {"type": "integer"}
            }
        },
        "models.SaveAsCollectionResponse": {
            "type": "object",
            "properties": {
                "collection": {"$ref": "#/definitions/models.Collection"},
                "list": {"$ref": "#/definitions/models.PhotoList"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "lists": {"type": "integer"},
                "capacity": {"type": "integer"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Photolist API",
	Description:      "Named photo list cache with gallery backend sync.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
