package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "DIS Registry API",
        "description": "Student registration and administration backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Registration, roster, and recycle bin"},
        {"name": "Dashboard", "description": "Registration summary"}
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
        "/students/register": {
            "post": {
                "tags": ["Students"],
                "summary": "Register a new student",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "firstName", "in": "formData", "required": true, "type": "string"},
                    {"name": "lastName", "in": "formData", "required": true, "type": "string"},
                    {"name": "gender", "in": "formData", "required": true, "type": "string"},
                    {"name": "classLevel", "in": "formData", "required": true, "type": "string"},
                    {"name": "middleName", "in": "formData", "type": "string"},
                    {"name": "dateOfBirth", "in": "formData", "type": "string"},
                    {"name": "nationality", "in": "formData", "type": "string"},
                    {"name": "stateOfOrigin", "in": "formData", "type": "string"},
                    {"name": "lga", "in": "formData", "type": "string"},
                    {"name": "address", "in": "formData", "type": "string"},
                    {"name": "religion", "in": "formData", "type": "string"},
                    {"name": "phone", "in": "formData", "type": "string"},
                    {"name": "section", "in": "formData", "type": "string"},
                    {"name": "session", "in": "formData", "type": "string"},
                    {"name": "term", "in": "formData", "type": "string"},
                    {"name": "previousSchool", "in": "formData", "type": "string"},
                    {"name": "dateOfAdmission", "in": "formData", "type": "string"},
                    {"name": "passport", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Yearly admission quota reached", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List active students",
                "parameters": [
                    {"name": "classLevel", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/recyclebin": {
            "get": {
                "tags": ["Students"],
                "summary": "List recycled students",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Export the active roster",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "classLevel", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "passport", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/recycle/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Move student to the recycle bin",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/restore/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Restore student from the recycle bin",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/permanent/{id}": {
            "delete": {
                "tags": ["Students"],
                "summary": "Permanently delete student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Registration summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "admissionNumber": {"type": "string"},
                "firstName": {"type": "string"},
                "middleName": {"type": "string"},
                "lastName": {"type": "string"},
                "gender": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "nationality": {"type": "string"},
                "stateOfOrigin": {"type": "string"},
                "lga": {"type": "string"},
                "address": {"type": "string"},
                "religion": {"type": "string"},
                "phone": {"type": "string"},
                "classLevel": {"type": "string"},
                "section": {"type": "string"},
                "session": {"type": "string"},
                "term": {"type": "string"},
                "previousSchool": {"type": "string"},
                "dateOfAdmission": {"type": "string"},
                "passport": {"type": "string"},
                "deleted": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "DashboardSummary": {
            "type": "object",
            "properties": {
                "activeCount": {"type": "integer"},
                "recycledCount": {"type": "integer"},
                "admissionsThisYear": {"type": "integer"},
                "classCounts": {"type": "array", "items": {"$ref": "#/definitions/ClassCount"}},
                "generatedAt": {"type": "string"}
            }
        },
        "ClassCount": {
            "type": "object",
            "properties": {
                "classLevel": {"type": "string"},
                "count": {"type": "integer"}
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
