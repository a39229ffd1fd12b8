package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Training Plan API",
        "description": "Training schedule construction and workload validation",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Operator authentication"},
        {"name": "Subjects", "description": "Subject and lesson catalog"},
        {"name": "Schedules", "description": "Schedule construction and planning"},
        {"name": "Exports", "description": "Timetable export and download"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subject summaries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Fetch a subject with its lessons",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Update subject metadata",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete a subject",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "412": {"description": "Referenced as a prerequisite", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}/lessons": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Add a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}/lessons/{lessonId}": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Update a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "lessonId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "lessonId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedule summaries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Build a schedule skeleton",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BuildScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Fetch a schedule document",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a schedule",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/days/{day}/subjects": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Replace the day's subject selection",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true},
                    {"name": "day", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetDaySubjectsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/days/{day}/subjects/{subjectId}/time": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Assign or clear the subject's start time",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true},
                    {"name": "day", "in": "path", "type": "integer", "required": true},
                    {"name": "subjectId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetSubjectTimeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Subject not selected for the day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/days/{day}/subjects/{subjectId}/lesson": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Assign or clear the subject's lesson",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true},
                    {"name": "day", "in": "path", "type": "integer", "required": true},
                    {"name": "subjectId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetSubjectLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/copy": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Copy the week's assignments to another week",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyWeekRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/materialize": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Materialize the week's draft assignments into items",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Partially materialized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/lessons": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Place a lesson directly onto a day",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Time conflict or lesson already planned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/subjects/{subjectId}/available-lessons": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List the subject's lessons not yet placed",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "subjectId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/validation": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Validate every day of the week against the daily target",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/weeks/{week}/days/{day}/suggestions": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Suggest lesson substitutions for a subject on a day",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "path", "type": "integer", "required": true},
                    {"name": "day", "in": "path", "type": "integer", "required": true},
                    {"name": "subjectId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a timetable export",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportScheduleRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{file}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export artifact by signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "file", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Artifact"},
                    "404": {"description": "Not ready or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateSubjectRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "defaultDuration": {"type": "number"},
                "prerequisites": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateSubjectRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "defaultDuration": {"type": "number"},
                "prerequisites": {"type": "array", "items": {"type": "string"}}
            }
        },
        "LessonRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "duration": {"type": "number"},
                "location": {"type": "string"}
            }
        },
        "BuildScheduleRequest": {
            "type": "object",
            "required": ["name", "startDate", "endDate"],
            "properties": {
                "name": {"type": "string"},
                "startDate": {"type": "string", "example": "2025-09-01"},
                "endDate": {"type": "string", "example": "2025-09-14"}
            }
        },
        "SetDaySubjectsRequest": {
            "type": "object",
            "properties": {
                "subjectIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SetSubjectTimeRequest": {
            "type": "object",
            "properties": {
                "time": {"type": "string", "example": "07:00"}
            }
        },
        "SetSubjectLessonRequest": {
            "type": "object",
            "properties": {
                "lessonId": {"type": "string"}
            }
        },
        "CopyWeekRequest": {
            "type": "object",
            "required": ["targetWeek"],
            "properties": {
                "targetWeek": {"type": "integer"}
            }
        },
        "AddLessonRequest": {
            "type": "object",
            "required": ["week", "subjectId", "lessonId", "startTime"],
            "properties": {
                "week": {"type": "integer"},
                "day": {"type": "integer"},
                "subjectId": {"type": "string"},
                "lessonId": {"type": "string"},
                "startTime": {"type": "string", "example": "08:00"}
            }
        },
        "ExportScheduleRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
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
