package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Hoje o cliente só envia ping; o resto é ignorado
type ClientMsg struct {
	Type string `json:"type"`
}
