package main

import (
	"log"

	"iglesia360/internal/config"
	"iglesia360/internal/database"
	"iglesia360/internal/repository"
	"iglesia360/internal/repository/memory"
	"iglesia360/internal/seed"
)

// storage bundles the repositories of the configured driver
type storage struct {
	solicitudes repository.SolicitudRepository
	ministries  repository.MinistryRepository
	users       repository.UserRepository
	audit       repository.AuditRepository
	tx          repository.TransactionManager
}

func openStorage(cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Println("Using in-memory storage; data is lost on restart.")
		return &storage{
			solicitudes: memory.NewSolicitudRepository(),
			ministries:  memory.NewMinistryRepository(),
			users:       memory.NewUserRepository(),
			audit:       memory.NewAuditRepository(),
			tx:          memory.NewTransactionManager(),
		}, nil
	}

	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to %s successfully.", cfg.StorageDriver)

	return &storage{
		solicitudes: repository.NewSolicitudRepository(db),
		ministries:  repository.NewMinistryRepository(db),
		users:       repository.NewUserRepository(db),
		audit:       repository.NewAuditRepository(db),
		tx:          repository.NewTransactionManager(db),
	}, nil
}

func (s *storage) seedRepositories() seed.Repositories {
	return seed.Repositories{Users: s.users, Ministries: s.ministries, Solicitudes: s.solicitudes}
}
