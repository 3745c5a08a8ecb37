package domain

import "fmt"

// Gli errori del motore di prenotazione sono distinguibili con errors.As: il
// chiamante deve poter mostrare "il ruolo si è appena riempito, scegline un
// altro" e "hai già un ruolo in questo turno" come esiti diversi.

// ValidationError: richiesta malformata, respinta prima di qualsiasi scrittura.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// CapacityError: il ruolo richiesto non ha più posti liberi.
type CapacityError struct {
	Role     string
	Required int32
	Occupied int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("il ruolo %q è al completo (%d/%d)", e.Role, e.Occupied, e.Required)
}

// ConflictError: doppia iscrizione, rimozione di un non iscritto oppure
// scrittura persa contro una mutazione concorrente.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

type NotFoundError struct {
	Resource string // "turno", "profilo", ...
}

func (e *NotFoundError) Error() string {
	return e.Resource + " non trovato"
}

// StoreError incapsula un errore del database, distinto dagli errori di
// dominio qui sopra: non va mai inghiottito in silenzio.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("errore dello store durante %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
