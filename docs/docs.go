// Package docs holds the generated OpenAPI definition served at /docs.
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
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Search the product catalog",
                "parameters": [
                    {"type": "string", "name": "query", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "name": "brands", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "string", "name": "sort_by", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Fetch one product by id",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/products/latest-popular": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List latest popular products",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/products/hot-deals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List hot deals",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/products/best-selling": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List best selling products",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List product categories",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/brands": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List brands, optionally per category",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/compare": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Assemble a comparison document for 2-4 product ids",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/compare/removed": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Exclude a product id from future comparisons",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contact": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["contact"],
                "summary": "Submit a contact form message",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service and database health",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Catalog Service API",
	Description:      "Affiliate price-comparison catalog: product search, featured lists, and the comparison document API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
