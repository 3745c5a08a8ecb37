package seed

import (
	"log/slog"

	"github.com/cri-turni/backend/internal/config"
	"github.com/cri-turni/backend/internal/repository"
	"github.com/cri-turni/backend/internal/reservation"
)

type demoShift struct {
	title         string
	startTime     string
	endTime       string
	requiredRoles map[string]int32
}

// Il piano base di una giornata dell'evento: tre fasce orarie con i ruoli
// tipici di un presidio.
var demoDayPlan = []demoShift{
	{
		title:     "Presidio sanitario - mattina",
		startTime: "08:00",
		endTime:   "14:00",
		requiredRoles: map[string]int32{
			"Medico": 1, "Infermiere": 1, "Volontario": 4, "Autista": 1,
		},
	},
	{
		title:     "Presidio sanitario - pomeriggio",
		startTime: "14:00",
		endTime:   "20:00",
		requiredRoles: map[string]int32{
			"Medico": 1, "Infermiere": 1, "Volontario": 4, "Autista": 1,
		},
	},
	{
		title:     "Presidio sanitario - sera",
		startTime: "18:00",
		endTime:   "23:30",
		requiredRoles: map[string]int32{
			"Medico": 1, "Volontario": 2,
		},
	},
}

// SeedDemoSchedule inserisce il piano base per ognuna delle date configurate
// dell'evento.
func SeedDemoSchedule(r *repository.Repository, cfg *config.Config) {
	cnt := 0
	for _, date := range cfg.Event.Dates {
		for _, ds := range demoDayPlan {
			input := &reservation.ShiftInput{
				Title:         ds.title,
				Date:          date,
				StartTime:     ds.startTime,
				EndTime:       ds.endTime,
				RequiredRoles: ds.requiredRoles,
			}
			if err := reservation.ValidateShiftInput(input, cfg.Event.Dates); err != nil {
				slog.Error("turno demo non valido", "title", ds.title, "date", date, "error", err)
				continue
			}

			shift := reservation.BuildShift(input)
			if err := r.CreateShift(shift); err != nil {
				slog.Error("impossibile inserire il turno demo", "title", ds.title, "date", date, "error", err)
				continue
			}

			cnt++
		}
	}

	slog.Info("piano demo inserito", "count", cnt)
}
