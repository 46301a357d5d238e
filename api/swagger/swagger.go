package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PRF API",
        "description": "Purchase request form approval workflow",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Accounts and tokens"},
        {"name": "PRF", "description": "Purchase request forms"},
        {"name": "Approvals", "description": "Stage actions and rejection"},
        {"name": "Cancellation", "description": "Same-day cancel, restore and edit"},
        {"name": "Assignments", "description": "Per-submitter approval chains"},
        {"name": "Stock Checks", "description": "Warehouse availability decisions"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a requestor account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for tokens",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prfs": {
            "get": {
                "tags": ["PRF"],
                "summary": "List purchase request forms",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "prfNo", "in": "query", "type": "string"},
                    {"name": "preparedBy", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["PRF"],
                "summary": "Submit a purchase request form",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitPrfRequest"}}
                ],
                "responses": {
                    "200": {"description": "Duplicate PRF number, stored form returned"},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prfs/mine": {
            "get": {
                "tags": ["PRF"],
                "summary": "List the caller's purchase request forms",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prfs/{id}": {
            "get": {
                "tags": ["PRF"],
                "summary": "Get one purchase request form with items",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/prfs/{id}/export": {
            "get": {
                "tags": ["PRF"],
                "summary": "Download a printable PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/prfs/{id}/action": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Advance a PRF through one approval stage",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid action"},
                    "409": {"description": "Concurrent modification"}
                }
            }
        },
        "/prfs/{id}/reject": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Reject a PRF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RejectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prfs/{id}/cancel": {
            "post": {
                "tags": ["Cancellation"],
                "summary": "Cancel a PRF on its submission day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already cancelled"},
                    "422": {"description": "Policy violation"}
                }
            }
        },
        "/prfs/{id}/uncancel": {
            "post": {
                "tags": ["Cancellation"],
                "summary": "Restore a cancelled PRF on its submission day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not cancelled"}
                }
            }
        },
        "/prfs/{id}/items": {
            "put": {
                "tags": ["Cancellation"],
                "summary": "Edit the stock lines of a same-day PRF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateItemsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prfs/{id}/stock-checks": {
            "get": {
                "tags": ["Stock Checks"],
                "summary": "List stock check decisions for one PRF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prf-items/{id}/received": {
            "patch": {
                "tags": ["PRF"],
                "summary": "Mark one stock line delivered",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already delivered"}
                }
            }
        },
        "/prf-items/{id}/remarks": {
            "patch": {
                "tags": ["PRF"],
                "summary": "Replace the remarks of one stock line",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RemarksRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/approvals": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List configured approval chains",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/approvals/populate": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Configure a submitter's approval chain by names",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PopulateAssignmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/approvals/{userId}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get the resolved chain of one submitter",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stock-checkers": {
            "get": {
                "tags": ["Stock Checks"],
                "summary": "List allowed stock checkers",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stock-checks/verify": {
            "post": {
                "tags": ["Stock Checks"],
                "summary": "Record that a stock line is available",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StockCheckRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked"}
                }
            }
        },
        "/stock-checks/reject": {
            "post": {
                "tags": ["Stock Checks"],
                "summary": "Record that a stock line is not available",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StockCheckRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["fullName", "email", "password"],
            "properties": {
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "outlookEmail": {"type": "string"},
                "password": {"type": "string"},
                "departmentId": {"type": "string"},
                "departmentType": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "SubmitLineItem": {
            "type": "object",
            "required": ["stockCode", "stockName", "quantity", "unit"],
            "properties": {
                "stockCode": {"type": "string"},
                "stockName": {"type": "string"},
                "quantity": {"type": "number"},
                "unit": {"type": "string"},
                "dateNeeded": {"type": "string", "format": "date-time"},
                "purpose": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "SubmitPrfRequest": {
            "type": "object",
            "required": ["prfNo", "prfDate", "items"],
            "properties": {
                "prfNo": {"type": "string"},
                "prfDate": {"type": "string", "format": "date-time"},
                "departmentId": {"type": "string"},
                "departmentCharge": {"type": "string"},
                "departmentType": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/SubmitLineItem"}}
            }
        },
        "ActionRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string", "enum": ["check", "approve", "receive"]}
            }
        },
        "RejectRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "UpdateItemsRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/SubmitLineItem"}}
            }
        },
        "RemarksRequest": {
            "type": "object",
            "required": ["remarks"],
            "properties": {
                "remarks": {"type": "string"}
            }
        },
        "PopulateAssignmentRequest": {
            "type": "object",
            "required": ["userId"],
            "properties": {
                "userId": {"type": "integer"},
                "checkedByName": {"type": "string"},
                "secondCheckedByName": {"type": "string"},
                "approvedByName": {"type": "string"},
                "receivedByName": {"type": "string"}
            }
        },
        "StockCheckRequest": {
            "type": "object",
            "required": ["prfId", "stockCode", "stockName"],
            "properties": {
                "prfId": {"type": "string"},
                "stockCode": {"type": "string"},
                "stockName": {"type": "string"},
                "notedBy": {"type": "string"},
                "rejectionReason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
