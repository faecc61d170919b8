package shop

import "fmt"

// Тексты для пользователей - на казахском, как в редакции.
const (
	textWelcome       = "Сәлем! Газетті таңдаңыз 👇"
	textMainMenu      = "Басты меню 👇"
	textArchivePick   = "Архивтен таңдаңыз 👇"
	textArchiveEmpty  = "Архив әзірше бос."
	textIssueNotFound = "Бұл шығарылым табылмады. Архивтен қайта таңдаңыз."
	textSelectFirst   = "Алдымен /start арқылы таңдаңыз."
	textProofAccepted = "Чек қабылданды. Тексерілген соң PDF жіберіледі."
	textProofFailed   = "Чекті жіберу мүмкін болмады. Біраз уақыттан соң қайталап көріңіз."
	textRejected      = "Төлем расталмады."

	DefaultContactText = "Редакциямен байланыс: осында телефон немесе WhatsApp жазыңыз"

	buttonWeekly  = "🗞 Осы апта газеті"
	buttonArchive = "🗂 Архив (өткен апталар)"
	buttonContact = "💬 Байланыс"
	buttonBack    = "⬅️ Артқа"
	buttonApprove = "✅ Растау"
	buttonReject  = "❌ Бас тарту"

	markApproved = "РАСТАЛДЫ"
	markRejected = "БАС ТАРТЫЛДЫ"

	toastSent     = "Жіберілді"
	toastRejected = "Бас тартылды"
	toastResolved = "Бұл өтінім жабылған"
	toastBusy     = "Өңделуде..."
	toastFailed   = "Қате"
)

// Ответы администратору.
const (
	textAskWeekly      = "Осы аптаның PDF файлын жіберіңіз."
	textAddIssueUsage  = "Қолдану: /addissue №7 — 16.02.2026\nБелгіде «:» болмауы керек."
	textWeeklyUpdated  = "Апталық PDF жаңартылды!"
	textIssueAdded     = "Архивке қосылды!"
	textIntakeNeedFile = "PDF файл ретінде жіберіңіз (сурет емес)."
	textPersistFailed  = "⚠️ Каталогты сақтау мүмкін болмады, өзгеріс қолданылмады. Файлды қайта жіберіңіз."
)

func paymentText(label string) string {
	return "💳 Төлем жасау:\n" +
		"1) Kaspi арқылы төлеңіз.\n" +
		"2) Төлем жасаған соң чек/скринді осы чатқа жіберіңіз.\n\n" +
		"Таңдағаныңыз: " + label
}

func askIssueText(label string) string {
	return fmt.Sprintf("%s үшін PDF жіберіңіз.", label)
}

func moderationCaption(userID int64, label string) string {
	return fmt.Sprintf("Төлем чегі келді\nUser ID: %d\nТаңдауы: %s", userID, label)
}

func lookupFailedText(userID int64, reason error) string {
	return fmt.Sprintf("⚠️ Ішкі қате: User ID %d өтінімін орындау мүмкін болмады.\n%v\nӨтінім ашық қалды.", userID, reason)
}
