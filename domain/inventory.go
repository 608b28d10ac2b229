package domain

import "time"

// CREATE TABLE public.inventory_levels (
//     id                 BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id         VARCHAR(20) REFERENCES products(id),
//     stock_level        INTEGER,
//     reorder_point      INTEGER,
//     max_stock          INTEGER,
//     warehouse_location TEXT,
//     last_updated       TIMESTAMPTZ DEFAULT NOW()
// );

type InventorySnapshot struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID         string    `gorm:"column:product_id;index" json:"product_id"`
	StockLevel        int       `gorm:"column:stock_level" json:"stock_level"`
	ReorderPoint      int       `gorm:"column:reorder_point" json:"reorder_point"`
	MaxStock          int       `gorm:"column:max_stock" json:"max_stock"`
	WarehouseLocation string    `gorm:"column:warehouse_location;type:text" json:"warehouse_location"`
	LastUpdated       time.Time `gorm:"column:last_updated" json:"last_updated"`
}

func (InventorySnapshot) TableName() string {
	return "inventory_levels"
}
