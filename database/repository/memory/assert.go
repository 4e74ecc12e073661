package memoryRepo

import (
	accountRepo "tripmarket/database/repository/account"
	bookingRepo "tripmarket/database/repository/booking"
	tripRepo "tripmarket/database/repository/trip"
)

var (
	_ tripRepo.TripRepository       = (*TripStore)(nil)
	_ bookingRepo.BookingRepository = (*BookingStore)(nil)
	_ accountRepo.AccountRepository = (*AccountStore)(nil)
)
