// Package docs holds the OpenAPI template served under /swagger. Keep it in
// step with the handler annotations when routes change.
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
        "/api/crops": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["crops"],
                "summary": "List my crops",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.cropsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crops"],
                "summary": "Create a crop listing",
                "parameters": [
                    {"description": "Crop details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.CreateCropInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.cropResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/crops/marketplace": {
            "get": {
                "produces": ["application/json"],
                "tags": ["marketplace"],
                "summary": "Browse the marketplace",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive substring of the crop type", "name": "crop_type", "in": "query"},
                    {"type": "string", "description": "Case-insensitive substring of the location", "name": "location", "in": "query"},
                    {"type": "number", "description": "Inclusive lower price bound", "name": "min_price", "in": "query"},
                    {"type": "number", "description": "Inclusive upper price bound", "name": "max_price", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.marketplaceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/crops/offers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["offers"],
                "summary": "My offers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.traderOffersResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/crops/offers/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["offers"],
                "summary": "Update an offer",
                "parameters": [
                    {"type": "string", "description": "Offer ID", "name": "id", "in": "path", "required": true},
                    {"description": "New price", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.OfferInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.offerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["offers"],
                "summary": "Withdraw an offer",
                "parameters": [
                    {"type": "string", "description": "Offer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/crops/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crops"],
                "summary": "Update a crop listing",
                "parameters": [
                    {"type": "string", "description": "Crop ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CropPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.cropResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["crops"],
                "summary": "Delete a crop listing",
                "parameters": [
                    {"type": "string", "description": "Crop ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/crops/{id}/offer": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["offers"],
                "summary": "Make an offer",
                "parameters": [
                    {"type": "string", "description": "Crop ID", "name": "id", "in": "path", "required": true},
                    {"description": "Offered price", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.OfferInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.offerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/crops/{id}/offers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["offers"],
                "summary": "Offers on my crop",
                "parameters": [
                    {"type": "string", "description": "Crop ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.offersResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/user/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/user/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Crop": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "created_at": {"type": "string"},
                "crop_type": {"type": "string"},
                "harvest_date": {"type": "string"},
                "location": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "number"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "domain.CropPatch": {
            "type": "object",
            "properties": {
                "crop_type": {"type": "string"},
                "harvest_date": {"type": "string"},
                "location": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "number"}
            }
        },
        "domain.FarmerProfile": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "location": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "domain.MarketplaceListing": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "created_at": {"type": "string"},
                "crop_type": {"type": "string"},
                "farmer": {"$ref": "#/definitions/domain.FarmerProfile"},
                "harvest_date": {"type": "string"},
                "location": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "number"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "domain.Offer": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "created_at": {"type": "string"},
                "crop_id": {"type": "string"},
                "offered_price": {"type": "number"},
                "trader_id": {"type": "string"},
                "trader_name": {"type": "string"},
                "trader_phone": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.TraderOffer": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "created_at": {"type": "string"},
                "crop": {"$ref": "#/definitions/domain.Crop"},
                "crop_id": {"type": "string"},
                "offered_price": {"type": "number"},
                "trader_id": {"type": "string"},
                "trader_name": {"type": "string"},
                "trader_phone": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "created_at": {"type": "string"},
                "full_name": {"type": "string"},
                "location": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.cropResponse": {
            "type": "object",
            "properties": {
                "crop": {"$ref": "#/definitions/domain.Crop"},
                "message": {"type": "string"}
            }
        },
        "handler.cropsResponse": {
            "type": "object",
            "properties": {
                "crops": {"type": "array", "items": {"$ref": "#/definitions/domain.Crop"}}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.marketplaceResponse": {
            "type": "object",
            "properties": {
                "crops": {"type": "array", "items": {"$ref": "#/definitions/domain.MarketplaceListing"}}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.offerResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "offer": {"$ref": "#/definitions/domain.Offer"}
            }
        },
        "handler.offersResponse": {
            "type": "object",
            "properties": {
                "offers": {"type": "array", "items": {"$ref": "#/definitions/domain.Offer"}}
            }
        },
        "handler.profileResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.traderOffersResponse": {
            "type": "object",
            "properties": {
                "offers": {"type": "array", "items": {"$ref": "#/definitions/domain.TraderOffer"}}
            }
        },
        "ports.CreateCropInput": {
            "type": "object",
            "required": ["crop_type", "harvest_date", "location", "price", "quantity"],
            "properties": {
                "crop_type": {"type": "string"},
                "harvest_date": {"type": "string"},
                "location": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "number"}
            }
        },
        "ports.LoginInput": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "ports.OfferInput": {
            "type": "object",
            "required": ["offered_price"],
            "properties": {
                "offered_price": {"type": "number"}
            }
        },
        "ports.RegisterInput": {
            "type": "object",
            "required": ["full_name", "location", "password", "phone", "role", "username"],
            "properties": {
                "full_name": {"type": "string"},
                "location": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Agri-pal API",
	Description:      "Marketplace backend connecting farmers and traders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
