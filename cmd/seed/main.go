package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"lavacar/internal/config"
	"lavacar/internal/database"
	"lavacar/internal/domain"
	"lavacar/internal/modules/client"
	"lavacar/internal/modules/schedule"
	"lavacar/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"booking_wash_types", "bookings", "services",
		"vehicles", "plates", "customers",
		"goals", "wash_types", "size_classes", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	st := store.NewGorm(db)

	log.Println("Creating operator account...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("operator123"), bcrypt.DefaultCost)
	operator := domain.User{
		Email:        "operator@lavacar.local",
		PasswordHash: string(hash),
		Name:         "Operator",
	}
	if err := st.Insert(ctx, "users", &operator); err != nil {
		log.Fatal("seed user:", err)
	}

	log.Println("Creating catalog...")
	sizeClasses := []domain.SizeClass{
		{Label: "Small"},
		{Label: "Medium"},
		{Label: "Large"},
	}
	if err := st.Insert(ctx, "size_classes", &sizeClasses); err != nil {
		log.Fatal("seed size classes:", err)
	}

	washTypes := []domain.WashType{
		{Label: "Exterior wash"},
		{Label: "Interior cleaning"},
		{Label: "Full detail"},
		{Label: "Wax and polish"},
		{Label: "Engine bay"},
	}
	if err := st.Insert(ctx, "wash_types", &washTypes); err != nil {
		log.Fatal("seed wash types:", err)
	}

	// Demo data goes through the orchestrators so the seeded rows carry the
	// same shape a real registration would produce.
	clients := client.NewService(st)
	bookings := schedule.NewService(st, nil)

	demo := []client.Form{
		{
			Name: "Ana Souza", TaxID: "123.456.789-00", City: "Campinas", State: "SP",
			Phone1: "19 99999-0001", Plate: "ABC1D23",
			Make: "Fiat", Model: "Argo", Year: "2021", Color: "White",
			SizeClassID: sizeClasses[0].ID,
		},
		{
			Name: "Bruno Lima", TaxID: "987.654.321-00", City: "Campinas", State: "SP",
			Phone1: "19 99999-0002", Plate: "DEF4G56",
			Make: "Toyota", Model: "Hilux", Year: "2019", Color: "Silver",
			SizeClassID: sizeClasses[2].ID,
		},
		{
			// Customer registered without a vehicle yet.
			Name: "Carla Mendes", TaxID: "111.222.333-44", City: "Valinhos", State: "SP",
			Phone1: "19 99999-0003",
		},
	}

	for _, form := range demo {
		res, err := clients.Save(ctx, form, nil)
		if err != nil {
			log.Fatal("seed client:", err)
		}

		if res.VehicleID == nil {
			continue
		}
		_, err = bookings.Save(ctx, schedule.Form{
			CustomerID:  res.CustomerID,
			VehicleID:   *res.VehicleID,
			Date:        "2026-08-29",
			Time:        "09:00",
			SizeClassID: form.SizeClassID,
			WashTypeIDs: []int64{washTypes[0].ID, washTypes[1].ID},
			Price:       "89.90",
		}, nil)
		if err != nil {
			log.Fatal("seed booking:", err)
		}
	}

	log.Println("Seed complete.")
}
