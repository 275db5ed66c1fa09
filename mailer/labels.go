package mailer

type labels struct {
	Hello          string
	Reference      string
	Tour           string
	Date           string
	Participants   string
	Discount       string
	Total          string
	ViewBooking    string
	RequestSubject string
	RequestTitle   string
	RequestBody    string
	ConfirmSubject string
	ConfirmedTitle string
	ConfirmedBody  string
	QRNote         string
	CancelSubject  string
	CancelledTitle string
	CancelledBody  string
}

var labelsByLanguage = map[string]labels{
	"en": {
		Hello:          "Hello",
		Reference:      "Reference",
		Tour:           "Tour",
		Date:           "Date",
		Participants:   "Participants",
		Discount:       "Discount",
		Total:          "Total",
		ViewBooking:    "View your booking",
		RequestSubject: "We received your booking request",
		RequestTitle:   "Booking request received",
		RequestBody:    "Thank you! We have received your request and will confirm it shortly.",
		ConfirmSubject: "Your booking is confirmed",
		ConfirmedTitle: "Booking confirmed",
		ConfirmedBody:  "Great news, your tour is confirmed. See you soon!",
		QRNote:         "Show the attached QR code to your guide.",
		CancelSubject:  "Your booking was cancelled",
		CancelledTitle: "Booking cancelled",
		CancelledBody:  "Your booking has been cancelled. Contact us if you have any questions.",
	},
	"pt": {
		Hello:          "Olá",
		Reference:      "Referência",
		Tour:           "Tour",
		Date:           "Data",
		Participants:   "Participantes",
		Discount:       "Desconto",
		Total:          "Total",
		ViewBooking:    "Ver a sua reserva",
		RequestSubject: "Recebemos o seu pedido de reserva",
		RequestTitle:   "Pedido de reserva recebido",
		RequestBody:    "Obrigado! Recebemos o seu pedido e iremos confirmá-lo em breve.",
		ConfirmSubject: "A sua reserva está confirmada",
		ConfirmedTitle: "Reserva confirmada",
		ConfirmedBody:  "Boas notícias, o seu tour está confirmado. Até breve!",
		QRNote:         "Mostre o código QR em anexo ao seu guia.",
		CancelSubject:  "A sua reserva foi cancelada",
		CancelledTitle: "Reserva cancelada",
		CancelledBody:  "A sua reserva foi cancelada. Contacte-nos se tiver alguma dúvida.",
	},
}

func labelsFor(lang string) labels {
	if l, ok := labelsByLanguage[lang]; ok {
		return l
	}
	return labelsByLanguage["en"]
}
