package market

import "etshoes/internal/model"

// ToggledStatus is the admin status toggle: active sellers become blocked,
// pending and blocked sellers become active. Verification is untouched.
func ToggledStatus(current model.SellerStatus) model.SellerStatus {
	if current == model.SellerStatusActive {
		return model.SellerStatusBlocked
	}
	return model.SellerStatusActive
}
