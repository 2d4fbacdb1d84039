package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. It expects a MySQL
// instance on localhost:3306 with a database named 'orthanc_test' and
// skips the test when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/orthanc_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties all tables in dependency order and closes the pool.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"Shipments",
		"SalesOrderLines",
		"SalesOrders",
		"InventoryMovements",
		"Inventory",
		"Carriers",
		"Warehouses",
		"Products",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repository tests run against.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		sku VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createWarehousesTable := `
	CREATE TABLE IF NOT EXISTS Warehouses (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(32) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createCarriersTable := `
	CREATE TABLE IF NOT EXISTS Carriers (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		isActive TINYINT(1) NOT NULL DEFAULT 1
	)`

	createInventoryTable := `
	CREATE TABLE IF NOT EXISTS Inventory (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		qtyOnHand INT NOT NULL DEFAULT 0,
		qtyReserved INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_product_warehouse (productId, warehouseId)
	)`

	createMovementsTable := `
	CREATE TABLE IF NOT EXISTS InventoryMovements (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		movementType VARCHAR(20) NOT NULL,
		quantity INT NOT NULL,
		reference VARCHAR(255) NOT NULL DEFAULT '',
		occurredAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_product_warehouse (productId, warehouseId)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS SalesOrders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		clientRef VARCHAR(100) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'CREATED',
		totalPrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_status (status)
	)`

	createOrderLinesTable := `
	CREATE TABLE IF NOT EXISTS SalesOrderLines (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		warehouseId INT NOT NULL,
		quantity INT NOT NULL,
		qtyReserved INT NOT NULL DEFAULT 0,
		qtyBackordered INT NOT NULL DEFAULT 0,
		unitPrice DECIMAL(10,2) NOT NULL,
		INDEX idx_order (orderId),
		INDEX idx_product_backordered (productId, qtyBackordered)
	)`

	createShipmentsTable := `
	CREATE TABLE IF NOT EXISTS Shipments (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		carrierId INT NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'PLANNED',
		trackingNumber VARCHAR(100) NOT NULL,
		plannedDeparture DATETIME NOT NULL,
		actualDeparture DATETIME NULL,
		deliveredAt DATETIME NULL,
		cutoffHour INT NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_planned_departure (plannedDeparture)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProductsTable},
		{"Warehouses", createWarehousesTable},
		{"Carriers", createCarriersTable},
		{"Inventory", createInventoryTable},
		{"InventoryMovements", createMovementsTable},
		{"SalesOrders", createOrdersTable},
		{"SalesOrderLines", createOrderLinesTable},
		{"Shipments", createShipmentsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
