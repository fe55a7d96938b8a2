// package repositories provides the local persistence layer for the
// movie catalogue.
//
// [MovieRepository] implements models.CatalogueCache on SQLite, holding a
// snapshot of the last list fetched from the service so browsing keeps
// working offline and commands can answer without a round trip.
package repositories
