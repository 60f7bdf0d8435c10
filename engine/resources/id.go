package resources

/** @brief An invalid ID used to mark unoccupied resource table slots. */
const InvalidID uint32 = 0xFFFFFFFF

/** @brief An invalid 16-bit generation. */
const InvalidIDUint16 uint16 = 0xFFFF
