package handler

import _ "embed"

//go:embed static/swagger.json
var swaggerJSON []byte
