// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/shop/products": {
            "get": {"tags": ["shop"], "summary": "List products visible in the shop", "responses": {"200": {"description": "OK"}}}
        },
        "/shop/products/{id}": {
            "get": {"tags": ["shop"], "summary": "Get a shop product", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/products": {
            "get": {"tags": ["catalog"], "summary": "Search products", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create a product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/products/{id}": {
            "get": {"tags": ["catalog"], "summary": "Get a product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["catalog"], "summary": "Update a product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["catalog"], "summary": "Delete a product", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No content"}}}
        },
        "/products/{id}/image": {
            "post": {"tags": ["catalog"], "summary": "Upload a product image", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/products/{id}/image-url": {
            "get": {"tags": ["catalog"], "summary": "Presigned image URL", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/customers": {
            "get": {"tags": ["parties"], "summary": "List customers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["parties"], "summary": "Create a customer", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/suppliers": {
            "get": {"tags": ["parties"], "summary": "List suppliers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["parties"], "summary": "Create a supplier", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/inventory/movements": {
            "get": {"tags": ["inventory"], "summary": "List stock movements", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["inventory"], "summary": "Post a stock movement", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Insufficient stock"}}}
        },
        "/orders": {
            "get": {"tags": ["orders"], "summary": "List orders", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["orders"], "summary": "Create a draft order", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Get an order with its lines", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["orders"], "summary": "Delete a draft order", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No content"}, "409": {"description": "Invalid state"}}}
        },
        "/orders/{id}/status": {
            "patch": {"tags": ["orders"], "summary": "Change order status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid state or insufficient stock"}}}
        },
        "/orders/{id}/slip": {
            "get": {"tags": ["orders"], "summary": "Order slip PDF", "produces": ["application/pdf"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/dashboard": {
            "get": {"tags": ["reports"], "summary": "Dashboard figures", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/daily-revenue": {
            "get": {"tags": ["reports"], "summary": "Daily revenue series", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/low-stock": {
            "get": {"tags": ["reports"], "summary": "Products at or under their minimum", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Shopdesk API",
	Description:      "Catalog, inventory ledger, orders and reporting for a small shop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
