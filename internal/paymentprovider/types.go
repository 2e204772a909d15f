package paymentprovider

// CreateOrderRequest представляет запрос на создание заказа в шлюзе.
// Сумма передаётся в наименьших единицах валюты (пайсы).
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`   // сумма в пайсах, например 66667
	Currency string            `json:"currency"` // валюта, например "INR"
	Receipt  string            `json:"receipt"`  // внутренний референс (id сессии)
	Notes    map[string]string `json:"notes,omitempty"`
}

// CreateOrderResponse представляет ответ шлюза на создание заказа.
type CreateOrderResponse struct {
	ID        string `json:"id"`     // ID заказа в шлюзе
	Status    string `json:"status"` // статус заказа, например "created"
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	CreatedAt int64  `json:"created_at"` // unix-время создания
}
