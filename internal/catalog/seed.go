package catalog

import _ "embed"

// Embedded seed catalog. Deployments can override either file via
// PRODUCT_CATALOG_PATH / DOCTOR_CATALOG_PATH.

//go:embed seed/products.json
var seedProducts []byte

//go:embed seed/doctors.json
var seedDoctors []byte
