package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysUser{},
	&SysOpLog{},
	// Catalog
	&Product{},
	&Position{},
	&Employee{},
	&Client{},
	// Vending
	&Cart{},
	&CartAssignment{},
	&InventoryLoad{},
	&Sale{},
	&SaleLine{},
}
