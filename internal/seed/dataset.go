package seed

import "github.com/ananya/fraudlens/backend/internal/service"

// DemoUsers returns a small fixed population with deliberate attribute
// collisions: u1/u2 and u6/u7 share emails, u1/u3 share a phone number.
func DemoUsers() []service.UserInput {
	return []service.UserInput{
		{ID: "u1", Name: "Aarav", Email: "family1@mail.com", Phone: "9001111111", Address: "MG Road, Delhi"},
		{ID: "u2", Name: "Priya", Email: "family1@mail.com", Phone: "9002222222", Address: "Andheri, Mumbai"},
		{ID: "u3", Name: "Rohan", Email: "rohan@mail.com", Phone: "9001111111", Address: "Salt Lake, Kolkata"},
		{ID: "u4", Name: "Neha", Email: "neha@mail.com", Phone: "9004444444", Address: "Koramangala, Bangalore"},
		{ID: "u5", Name: "Kiran", Email: "kiran@mail.com", Phone: "9005555555", Address: "Banjara Hills, Hyderabad"},
		{ID: "u6", Name: "Siddharth", Email: "family2@mail.com", Phone: "9006666666", Address: "Civil Lines, Jaipur"},
		{ID: "u7", Name: "Ananya", Email: "family2@mail.com", Phone: "9007777777", Address: "Sector 18, Noida"},
		{ID: "u8", Name: "Manish", Email: "manish@mail.com", Phone: "9008888888", Address: "Anna Nagar, Chennai"},
	}
}

// DemoTransactions returns transfers among the demo users. Several reuse an
// IP or device from an earlier transaction so the related-transaction pass
// has rings to surface.
func DemoTransactions() []service.TransactionInput {
	return []service.TransactionInput{
		{ID: "TXN1001", SenderID: "u1", ReceiverID: "u2", Amount: 500, IP: "192.168.1.1", DeviceID: "DVC5001"},
		{ID: "TXN1002", SenderID: "u2", ReceiverID: "u3", Amount: 1200, IP: "192.168.1.2", DeviceID: "DVC5002"},
		{ID: "TXN1003", SenderID: "u3", ReceiverID: "u4", Amount: 900, IP: "192.168.1.3", DeviceID: "DVC5003"},
		// same IP as TXN1001
		{ID: "TXN1004", SenderID: "u1", ReceiverID: "u5", Amount: 1500, IP: "192.168.1.1", DeviceID: "DVC5004"},
		{ID: "TXN1005", SenderID: "u4", ReceiverID: "u6", Amount: 2000, IP: "192.168.1.5", DeviceID: "DVC5005"},
		{ID: "TXN1006", SenderID: "u6", ReceiverID: "u7", Amount: 750, IP: "192.168.1.6", DeviceID: "DVC5006"},
		{ID: "TXN1007", SenderID: "u7", ReceiverID: "u8", Amount: 1300, IP: "192.168.1.7", DeviceID: "DVC5007"},
		// same IP as TXN1002
		{ID: "TXN1008", SenderID: "u2", ReceiverID: "u6", Amount: 850, IP: "192.168.1.2", DeviceID: "DVC5008"},
		{ID: "TXN1009", SenderID: "u5", ReceiverID: "u1", Amount: 600, IP: "192.168.1.9", DeviceID: "DVC5009"},
		// same IP as TXN1003
		{ID: "TXN1010", SenderID: "u8", ReceiverID: "u3", Amount: 1700, IP: "192.168.1.3", DeviceID: "DVC5010"},
		// same IP and device as TXN1006
		{ID: "TXN1011", SenderID: "u6", ReceiverID: "u4", Amount: 950, IP: "192.168.1.6", DeviceID: "DVC5006"},
		// same IP and device as TXN1001
		{ID: "TXN1012", SenderID: "u5", ReceiverID: "u7", Amount: 400, IP: "192.168.1.1", DeviceID: "DVC5001"},
	}
}
