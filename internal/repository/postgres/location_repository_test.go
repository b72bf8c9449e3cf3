package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/charging-catalog/internal/domain"
	"github.com/charging-catalog/internal/domain/repository"
	"github.com/charging-catalog/internal/pkg/errors"
	"github.com/charging-catalog/internal/repository/postgres/testhelpers"
)

type LocationRepositoryTestSuite struct {
	suite.Suite
	testDB      *testhelpers.TestDB
	repo        repository.LocationRepository
	chargerRepo repository.ChargerRepository
	amenityRepo repository.AmenityRepository
	refRepo     repository.ReferenceRepository
	ctx         context.Context
}

func (s *LocationRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	// Apply migrations (skipped when tables already exist)
	_ = testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")

	s.repo = testhelpers.NewLocationRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.chargerRepo = testhelpers.NewChargerRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.amenityRepo = testhelpers.NewAmenityRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.refRepo = testhelpers.NewReferenceRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *LocationRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *LocationRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *LocationRepositoryTestSuite) newLocation(hereID string) *domain.Location {
	return &domain.Location{
		HereID:         hereID,
		Name:           "Downtown Charging Hub",
		Street:         "Main St",
		City:           "Los Angeles",
		Country:        "USA",
		Latitude:       34.0522,
		Longitude:      -118.2437,
		Access:         domain.AccessPublic,
		PaymentMethods: []string{"credit_card", "app"},
	}
}

func (s *LocationRepositoryTestSuite) amenityID(amenityType string) uuid.UUID {
	amenity, err := s.amenityRepo.GetOrCreate(s.ctx, &domain.Amenity{AmenityType: amenityType})
	s.Require().NoError(err)
	return amenity.ID
}

func (s *LocationRepositoryTestSuite) amenityTypes(loc *domain.Location) []string {
	types := make([]string, 0, len(loc.Amenities))
	for _, a := range loc.Amenities {
		types = append(types, a.AmenityType)
	}
	return types
}

func (s *LocationRepositoryTestSuite) TestCreate_RoundTrip() {
	loc := s.newLocation("here:pds:place:create1")
	loc.WorkingDays = []domain.WorkingDay{
		{Day: 1, OpenTime: "08:00", CloseTime: "20:00"},
		{Day: 2, OpenTime: "08:00", CloseTime: "20:00"},
	}

	created, err := s.repo.Create(s.ctx, loc, []uuid.UUID{s.amenityID("cafe"), s.amenityID("restroom")})
	s.Require().NoError(err)

	s.Equal("here:pds:place:create1", created.HereID)
	s.Equal(1, created.Version)
	s.Equal([]string{"credit_card", "app"}, created.PaymentMethods)
	s.Len(created.WorkingDays, 2)
	s.Equal(1, created.WorkingDays[0].Day)
	s.Equal("08:00", created.WorkingDays[0].OpenTime)
	s.ElementsMatch([]string{"cafe", "restroom"}, s.amenityTypes(created))

	got, err := s.repo.GetByID(s.ctx, created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)
	s.Len(got.WorkingDays, 2)
}

func (s *LocationRepositoryTestSuite) TestCreate_DuplicateHereID() {
	_, err := s.repo.Create(s.ctx, s.newLocation("here:pds:place:dup"), []uuid.UUID{})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, s.newLocation("here:pds:place:dup"), []uuid.UUID{})
	s.Equal(errors.ErrDuplicateLocation, err)
}

func (s *LocationRepositoryTestSuite) TestCreate_DuplicateWorkingDay() {
	loc := s.newLocation("here:pds:place:dupday")
	loc.WorkingDays = []domain.WorkingDay{
		{Day: 3, OpenTime: "08:00", CloseTime: "20:00"},
		{Day: 3, OpenTime: "09:00", CloseTime: "21:00"},
	}

	_, err := s.repo.Create(s.ctx, loc, []uuid.UUID{})
	s.Equal(errors.ErrInvalidSchedule, err)
}

func (s *LocationRepositoryTestSuite) TestGetByHereID() {
	created, err := s.repo.Create(s.ctx, s.newLocation("here:pds:place:byhere"), []uuid.UUID{})
	s.Require().NoError(err)

	got, err := s.repo.GetByHereID(s.ctx, "here:pds:place:byhere")
	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal(created.ID, got.ID)

	// Unknown here_id is not an error, just no row
	missing, err := s.repo.GetByHereID(s.ctx, "here:pds:place:unknown")
	s.NoError(err)
	s.Nil(missing)
}

func (s *LocationRepositoryTestSuite) TestUpdate_ReconcilesOwnedRows() {
	loc := s.newLocation("here:pds:place:update1")
	loc.WorkingDays = []domain.WorkingDay{
		{Day: 1, OpenTime: "08:00", CloseTime: "20:00"},
		{Day: 2, OpenTime: "08:00", CloseTime: "20:00"},
	}
	created, err := s.repo.Create(s.ctx, loc, []uuid.UUID{s.amenityID("cafe"), s.amenityID("restroom")})
	s.Require().NoError(err)

	submitted := s.newLocation("here:pds:place:update1")
	submitted.Name = "Renovated Hub"
	submitted.WorkingDays = []domain.WorkingDay{
		{Day: 1, OpenTime: "06:00", CloseTime: "22:00"},
		{Day: 4, OpenTime: "08:00", CloseTime: "20:00"},
	}

	updated, err := s.repo.Update(s.ctx, created.ID, submitted,
		[]uuid.UUID{s.amenityID("cafe"), s.amenityID("wifi")})
	s.NoError(err)

	s.Equal("Renovated Hub", updated.Name)
	s.Equal(2, updated.Version)

	// Monday changed hours, Tuesday dropped, Thursday added
	s.Require().Len(updated.WorkingDays, 2)
	s.Equal(1, updated.WorkingDays[0].Day)
	s.Equal("06:00", updated.WorkingDays[0].OpenTime)
	s.Equal(4, updated.WorkingDays[1].Day)

	// restroom unlinked, wifi linked, cafe kept
	s.ElementsMatch([]string{"cafe", "wifi"}, s.amenityTypes(updated))
}

func (s *LocationRepositoryTestSuite) TestUpdate_NotFound() {
	_, err := s.repo.Update(s.ctx, uuid.New(), s.newLocation("here:pds:place:ghost"), []uuid.UUID{})
	s.Equal(errors.ErrLocationNotFound, err)
}

func (s *LocationRepositoryTestSuite) TestSoftDelete_CascadesToChargers() {
	created, err := s.repo.Create(s.ctx, s.newLocation("here:pds:place:delete1"), []uuid.UUID{})
	s.Require().NoError(err)

	plug, err := s.refRepo.GetOrCreatePlugType(s.ctx, &domain.PowerPlugType{
		PowerModel: domain.PowerModelDC,
		PlugType:   "CCS",
		PlugTypeID: "33",
	})
	s.Require().NoError(err)
	output, err := s.refRepo.GetOrCreatePowerOutput(s.ctx, &domain.PowerOutput{
		OutputValue: 150, Voltage: 480, Amperage: 375,
	})
	s.Require().NoError(err)

	result, err := s.chargerRepo.Upsert(s.ctx, &domain.EVCharger{
		LocationID:   created.ID,
		HereID:       "US*CCO*DEL1",
		Availability: domain.AvailabilityAvailable,
		Ports: []domain.EVChargerPort{
			{HereID: "US*CCO*DEL1*P1", PlugTypeID: plug.ID, PowerOutputID: output.ID},
		},
	})
	s.Require().NoError(err)

	s.NoError(s.repo.SoftDelete(s.ctx, created.ID))

	_, err = s.repo.GetByID(s.ctx, created.ID)
	s.Equal(errors.ErrLocationNotFound, err)
	_, err = s.chargerRepo.GetByID(s.ctx, result.Charger.ID)
	s.Equal(errors.ErrChargerNotFound, err)
}

func (s *LocationRepositoryTestSuite) TestSoftDelete_NotFound() {
	s.Equal(errors.ErrLocationNotFound, s.repo.SoftDelete(s.ctx, uuid.New()))
}

func (s *LocationRepositoryTestSuite) TestList_FiltersAndPaginates() {
	first := s.newLocation("here:pds:place:list1")
	_, err := s.repo.Create(s.ctx, first, []uuid.UUID{})
	s.Require().NoError(err)

	second := s.newLocation("here:pds:place:list2")
	second.Name = "Valley Plaza"
	second.City = "San Diego"
	_, err = s.repo.Create(s.ctx, second, []uuid.UUID{})
	s.Require().NoError(err)

	byCity, total, err := s.repo.List(s.ctx,
		repository.LocationFilter{City: "los angeles"},
		repository.Pagination{Page: 1, PageSize: 10})
	s.NoError(err)
	s.Equal(1, total)
	s.Require().Len(byCity, 1)
	s.Equal("here:pds:place:list1", byCity[0].HereID)

	byText, total, err := s.repo.List(s.ctx,
		repository.LocationFilter{Text: "Valley"},
		repository.Pagination{Page: 1, PageSize: 10})
	s.NoError(err)
	s.Equal(1, total)
	s.Require().Len(byText, 1)
	s.Equal("Valley Plaza", byText[0].Name)

	paged, total, err := s.repo.List(s.ctx,
		repository.LocationFilter{},
		repository.Pagination{Page: 2, PageSize: 1})
	s.NoError(err)
	s.Equal(2, total)
	s.Len(paged, 1)
}

func (s *LocationRepositoryTestSuite) TestListAllDetailed_HydratesChargers() {
	created, err := s.repo.Create(s.ctx, s.newLocation("here:pds:place:detail1"), []uuid.UUID{})
	s.Require().NoError(err)

	plug, err := s.refRepo.GetOrCreatePlugType(s.ctx, &domain.PowerPlugType{
		PowerModel: domain.PowerModelAC,
		PlugType:   "Type 2",
		PlugTypeID: "25",
	})
	s.Require().NoError(err)
	output, err := s.refRepo.GetOrCreatePowerOutput(s.ctx, &domain.PowerOutput{
		OutputValue: 22, Voltage: 400, Amperage: 32,
	})
	s.Require().NoError(err)

	_, err = s.chargerRepo.Upsert(s.ctx, &domain.EVCharger{
		LocationID:   created.ID,
		HereID:       "US*CCO*DET1",
		Availability: domain.AvailabilityAvailable,
		Ports: []domain.EVChargerPort{
			{HereID: "US*CCO*DET1*P1", PlugTypeID: plug.ID, PowerOutputID: output.ID},
		},
	})
	s.Require().NoError(err)

	locations, err := s.repo.ListAllDetailed(s.ctx)
	s.NoError(err)
	s.Require().Len(locations, 1)
	s.Require().Len(locations[0].Chargers, 1)
	s.Require().Len(locations[0].Chargers[0].Ports, 1)
	s.NotNil(locations[0].Chargers[0].Ports[0].PlugType)
	s.NotNil(locations[0].Chargers[0].Ports[0].PowerOutput)
}

func TestLocationRepository(t *testing.T) {
	suite.Run(t, new(LocationRepositoryTestSuite))
}
