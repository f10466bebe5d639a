package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	DisplayName  *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// Apply copies the set fields onto user.
func (u UserUpdates) Apply(user *DbUser) {
	if user == nil {
		return
	}
	if u.DisplayName != nil {
		user.DisplayName = *u.DisplayName
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
	if u.IsActive != nil {
		user.IsActive = *u.IsActive
	}
}
