package domain

// Capability - действие, доступ к которому определяется ролью
type Capability string

const (
	CapabilityScanPlates     Capability = "scan_plates"      // Распознавание номеров на изображениях
	CapabilityViewOwnScans   Capability = "view_own_scans"   // История своих распознаваний
	CapabilityViewAllScans   Capability = "view_all_scans"   // История всех распознаваний
	CapabilityExportScans    Capability = "export_scans"     // Выгрузка доступной истории в xlsx
	CapabilityManageVehicles Capability = "manage_vehicles"  // Регистрация своих автомобилей
	CapabilityViewVehicles   Capability = "view_vehicles"    // Просмотр любых автомобилей
	CapabilityManageAll      Capability = "manage_all_users" // Действия от имени других пользователей
)

// RoleCapabilities - таблица "роль → набор возможностей".
// Разрешается один раз при сборке роутера, вместо проверок роли в обработчиках.
var RoleCapabilities = map[UserRole][]Capability{
	RoleAdmin: {
		CapabilityScanPlates,
		CapabilityViewOwnScans,
		CapabilityViewAllScans,
		CapabilityExportScans,
		CapabilityManageVehicles,
		CapabilityViewVehicles,
		CapabilityManageAll,
	},
	RoleGuard: {
		CapabilityScanPlates,
		CapabilityViewOwnScans,
		CapabilityViewAllScans,
		CapabilityExportScans,
		CapabilityViewVehicles,
	},
	RoleUser: {
		CapabilityScanPlates,
		CapabilityViewOwnScans,
		CapabilityExportScans,
		CapabilityManageVehicles,
	},
}

// Can проверяет, есть ли у роли указанная возможность
func (r UserRole) Can(capability Capability) bool {
	for _, c := range RoleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}
