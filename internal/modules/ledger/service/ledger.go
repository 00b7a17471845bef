package service

import (
	"sync"

	"github.com/13magician/kol-gold/pkg/db"
)

// Ledger — долговечный журнал намерений: родительские сигналы, дочерние
// команды, зеркало живых позиций и архив расчётов.
//
// Дисциплина одного писателя: каждый вызов берёт общий мьютекс, чтобы
// последовательности "прочитал -> решил -> записал" из цикла исполнения
// не переплетались с другими читателями тех же строк. Отдельные запросы
// и так атомарны, мьютекс защищает именно многошаговые сценарии.
type Ledger struct {
	db *db.PgTxManager
	mu sync.Mutex
}

func New(db *db.PgTxManager) *Ledger {
	return &Ledger{db: db}
}
